package wire

import (
	"encoding/json"
	"fmt"
)

// InvalidJSON is returned by Parse on malformed input; it is never fatal —
// spec §4.5 directs the session to log and skip the frame.
type InvalidJSON struct {
	Message string
	Raw     []byte
}

func (e *InvalidJSON) Error() string {
	return fmt.Sprintf("wire: invalid json: %s", e.Message)
}

type sniff struct {
	Channel string `json:"channel"`
	Type    string `json:"type"`
	Method  string `json:"method"`
}

// Parse decodes one inbound WebSocket text frame into the tagged Message
// union. Parse failures return *InvalidJSON and never panic.
func Parse(data []byte) (Message, error) {
	var s sniff
	if err := json.Unmarshal(data, &s); err != nil {
		return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
	}

	switch {
	case s.Method != "":
		var reply MethodReply
		if err := json.Unmarshal(data, &reply); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		return Message{Kind: KindMethodReply, MethodReply: &reply, Raw: data}, nil

	case s.Channel == "heartbeat":
		return Message{Kind: KindHeartbeat, Raw: data}, nil

	case s.Channel == "status":
		var env statusEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		if len(env.Data) == 0 {
			return Message{}, &InvalidJSON{Message: "status message carried no data", Raw: data}
		}
		status := env.Data[0]
		return Message{Kind: KindStatus, Status: &status, Raw: data}, nil

	case s.Channel == "book":
		var env bookEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		if len(env.Data) == 0 {
			return Message{}, &InvalidJSON{Message: "book message carried no data", Raw: data}
		}
		book := env.Data[0]
		kind := KindBookUpdate
		if env.Type == "snapshot" {
			kind = KindBookSnapshot
		}
		return Message{Kind: kind, Book: &book, Raw: data}, nil

	case s.Channel == "ticker":
		var env tickerEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		if len(env.Data) == 0 {
			return Message{Kind: KindUnknown, Raw: data}, nil
		}
		ticker := env.Data[0]
		return Message{Kind: KindTicker, Ticker: &ticker, Raw: data}, nil

	case s.Channel == "trade":
		var env tradeEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		if len(env.Data) == 0 {
			return Message{Kind: KindUnknown, Raw: data}, nil
		}
		trade := env.Data[0]
		return Message{Kind: KindTrade, Trade: &trade, Raw: data}, nil

	case s.Channel == "ohlc":
		var env ohlcEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		if len(env.Data) == 0 {
			return Message{Kind: KindUnknown, Raw: data}, nil
		}
		ohlc := env.Data[0]
		return Message{Kind: KindOhlc, Ohlc: &ohlc, Raw: data}, nil

	case s.Channel == "executions":
		var env executionEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, &InvalidJSON{Message: err.Error(), Raw: data}
		}
		if len(env.Data) == 0 {
			return Message{Kind: KindUnknown, Raw: data}, nil
		}
		exec := env.Data[0]
		return Message{Kind: KindExecution, Execution: &exec, Raw: data}, nil

	default:
		return Message{Kind: KindUnknown, Raw: data}, nil
	}
}
