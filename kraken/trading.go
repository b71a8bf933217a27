// Package kraken is the high-level facade of spec §4.14: a builder that
// wires together session, subscription manager, books, and tracker, plus
// the private WebSocket trading request builders of SPEC_FULL.md §C.2.
//
// Trading request shapes grounded on
// original_source/crates/kraken-ws/src/trading.rs.
package kraken

import (
	"sync/atomic"

	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// AddOrderParams is the full parameter set for an add_order request.
type AddOrderParams struct {
	OrderType    string         `json:"order_type"`
	Side         types.Side     `json:"side"`
	Symbol       string         `json:"symbol"`
	OrderQty     types.Decimal  `json:"order_qty"`
	LimitPrice   *types.Decimal `json:"limit_price,omitempty"`
	TimeInForce  *string        `json:"time_in_force,omitempty"`
	TriggerPrice *types.Decimal `json:"trigger_price,omitempty"`
	ClOrdID      *string        `json:"cl_ord_id,omitempty"`
	PostOnly     *bool          `json:"post_only,omitempty"`
	ReduceOnly   *bool          `json:"reduce_only,omitempty"`
	Token        string         `json:"token"`
}

// AddOrderRequest is the full outbound add_order wire frame.
type AddOrderRequest struct {
	Method string         `json:"method"`
	ReqID  *uint64        `json:"req_id,omitempty"`
	Params AddOrderParams `json:"params"`
}

// AmendOrderParams is the parameter set for an amend_order request.
type AmendOrderParams struct {
	OrderID      string         `json:"order_id"`
	LimitPrice   *types.Decimal `json:"limit_price,omitempty"`
	TriggerPrice *types.Decimal `json:"trigger_price,omitempty"`
	OrderQty     *types.Decimal `json:"order_qty,omitempty"`
	PostOnly     *bool          `json:"post_only,omitempty"`
	Token        string         `json:"token"`
}

// AmendOrderRequest is the full outbound amend_order wire frame.
type AmendOrderRequest struct {
	Method string           `json:"method"`
	ReqID  *uint64          `json:"req_id,omitempty"`
	Params AmendOrderParams `json:"params"`
}

// CancelOrderParams is the parameter set for a cancel_order request.
type CancelOrderParams struct {
	OrderID []string  `json:"order_id,omitempty"`
	ClOrdID *[]string `json:"cl_ord_id,omitempty"`
	Token   string    `json:"token"`
}

// CancelOrderRequest is the full outbound cancel_order wire frame.
type CancelOrderRequest struct {
	Method string             `json:"method"`
	ReqID  *uint64            `json:"req_id,omitempty"`
	Params CancelOrderParams  `json:"params"`
}

// CancelAllParams is the parameter set for a cancel_all request.
type CancelAllParams struct {
	Token string `json:"token"`
}

// CancelAllRequest is the full outbound cancel_all wire frame.
type CancelAllRequest struct {
	Method string          `json:"method"`
	ReqID  *uint64         `json:"req_id,omitempty"`
	Params CancelAllParams `json:"params"`
}

// CancelOnDisconnectParams is the parameter set for a
// cancel_all_orders_after request (dead man's switch).
type CancelOnDisconnectParams struct {
	Timeout uint32 `json:"timeout"`
	Token   string `json:"token"`
}

// CancelOnDisconnectRequest is the full outbound
// cancel_all_orders_after wire frame.
type CancelOnDisconnectRequest struct {
	Method string                   `json:"method"`
	ReqID  *uint64                  `json:"req_id,omitempty"`
	Params CancelOnDisconnectParams `json:"params"`
}

// BatchOrder is one order within a batch_add request.
type BatchOrder struct {
	OrderType    string         `json:"order_type"`
	Side         types.Side     `json:"side"`
	OrderQty     types.Decimal  `json:"order_qty"`
	LimitPrice   *types.Decimal `json:"limit_price,omitempty"`
	TriggerPrice *types.Decimal `json:"trigger_price,omitempty"`
	ClOrdID      *string        `json:"cl_ord_id,omitempty"`
}

// BatchAddParams is the parameter set for a batch_add request.
type BatchAddParams struct {
	Orders   []BatchOrder `json:"orders"`
	Token    string       `json:"token"`
	Symbol   string       `json:"symbol"`
	Deadline *string      `json:"deadline,omitempty"`
	Validate *bool        `json:"validate,omitempty"`
}

// BatchAddRequest is the full outbound batch_add wire frame.
type BatchAddRequest struct {
	Method string         `json:"method"`
	ReqID  *uint64        `json:"req_id,omitempty"`
	Params BatchAddParams `json:"params"`
}

// BatchCancelParams is the parameter set for a batch_cancel request.
type BatchCancelParams struct {
	Orders  []string  `json:"orders"`
	ClOrdID *[]string `json:"cl_ord_id,omitempty"`
	Token   string    `json:"token"`
}

// BatchCancelRequest is the full outbound batch_cancel wire frame.
type BatchCancelRequest struct {
	Method string             `json:"method"`
	ReqID  *uint64            `json:"req_id,omitempty"`
	Params BatchCancelParams  `json:"params"`
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

const timeInForceGTC = "gtc"

// TradingClient generates JSON-serializable private order-management
// requests bound to one WebSocket authentication token.
//
// Grounded on original_source/crates/kraken-ws/src/trading.rs.
type TradingClient struct {
	token        atomic.Value // string
	reqIDCounter atomic.Uint64
}

// NewTradingClient constructs a TradingClient bound to token.
func NewTradingClient(token string) *TradingClient {
	c := &TradingClient{}
	c.token.Store(token)
	c.reqIDCounter.Store(1)
	return c
}

// SetToken updates the bound authentication token, e.g. after a refresh.
func (c *TradingClient) SetToken(token string) { c.token.Store(token) }

// Token returns the currently bound authentication token.
func (c *TradingClient) Token() string { return c.token.Load().(string) }

func (c *TradingClient) nextReqID() uint64 { return c.reqIDCounter.Add(1) - 1 }

// MarketOrder builds a market order request.
func (c *TradingClient) MarketOrder(symbol string, side types.Side, qty types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType: "market",
		Side:      side,
		Symbol:    symbol,
		OrderQty:  qty,
		Token:     c.Token(),
	})
}

// LimitOrder builds a good-til-canceled limit order request.
func (c *TradingClient) LimitOrder(symbol string, side types.Side, qty, price types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType:   "limit",
		Side:        side,
		Symbol:      symbol,
		OrderQty:    qty,
		LimitPrice:  &price,
		TimeInForce: strPtr(timeInForceGTC),
		Token:       c.Token(),
	})
}

// PostOnlyOrder builds a post-only limit order request.
func (c *TradingClient) PostOnlyOrder(symbol string, side types.Side, qty, price types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType:   "limit",
		Side:        side,
		Symbol:      symbol,
		OrderQty:    qty,
		LimitPrice:  &price,
		TimeInForce: strPtr(timeInForceGTC),
		PostOnly:    boolPtr(true),
		Token:       c.Token(),
	})
}

// StopLossOrder builds a stop-loss market order request.
func (c *TradingClient) StopLossOrder(symbol string, side types.Side, qty, triggerPrice types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType:    "stop-loss",
		Side:         side,
		Symbol:       symbol,
		OrderQty:     qty,
		TriggerPrice: &triggerPrice,
		Token:        c.Token(),
	})
}

// StopLossLimitOrder builds a stop-loss limit order request.
func (c *TradingClient) StopLossLimitOrder(symbol string, side types.Side, qty, triggerPrice, limitPrice types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType:    "stop-loss-limit",
		Side:         side,
		Symbol:       symbol,
		OrderQty:     qty,
		LimitPrice:   &limitPrice,
		TimeInForce:  strPtr(timeInForceGTC),
		TriggerPrice: &triggerPrice,
		Token:        c.Token(),
	})
}

// TakeProfitOrder builds a take-profit market order request.
func (c *TradingClient) TakeProfitOrder(symbol string, side types.Side, qty, triggerPrice types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType:    "take-profit",
		Side:         side,
		Symbol:       symbol,
		OrderQty:     qty,
		TriggerPrice: &triggerPrice,
		Token:        c.Token(),
	})
}

// TakeProfitLimitOrder builds a take-profit limit order request.
func (c *TradingClient) TakeProfitLimitOrder(symbol string, side types.Side, qty, triggerPrice, limitPrice types.Decimal) AddOrderRequest {
	return c.addOrder(AddOrderParams{
		OrderType:    "take-profit-limit",
		Side:         side,
		Symbol:       symbol,
		OrderQty:     qty,
		LimitPrice:   &limitPrice,
		TimeInForce:  strPtr(timeInForceGTC),
		TriggerPrice: &triggerPrice,
		Token:        c.Token(),
	})
}

// CustomOrder builds an add_order request from a caller-assembled
// parameter set, for order shapes the named constructors don't cover.
func (c *TradingClient) CustomOrder(params AddOrderParams) AddOrderRequest {
	if params.Token == "" {
		params.Token = c.Token()
	}
	return c.addOrder(params)
}

func (c *TradingClient) addOrder(params AddOrderParams) AddOrderRequest {
	reqID := c.nextReqID()
	return AddOrderRequest{Method: "add_order", ReqID: &reqID, Params: params}
}

// AmendPrice builds an amend_order request that changes only the limit price.
func (c *TradingClient) AmendPrice(orderID string, newPrice types.Decimal) AmendOrderRequest {
	return c.amendOrder(AmendOrderParams{OrderID: orderID, LimitPrice: &newPrice, Token: c.Token()})
}

// AmendQty builds an amend_order request that changes only the quantity.
func (c *TradingClient) AmendQty(orderID string, newQty types.Decimal) AmendOrderRequest {
	return c.amendOrder(AmendOrderParams{OrderID: orderID, OrderQty: &newQty, Token: c.Token()})
}

// AmendOrder builds an amend_order request from a caller-assembled
// parameter set.
func (c *TradingClient) AmendOrder(params AmendOrderParams) AmendOrderRequest {
	if params.Token == "" {
		params.Token = c.Token()
	}
	return c.amendOrder(params)
}

func (c *TradingClient) amendOrder(params AmendOrderParams) AmendOrderRequest {
	reqID := c.nextReqID()
	return AmendOrderRequest{Method: "amend_order", ReqID: &reqID, Params: params}
}

// CancelOrder builds a cancel_order request for a single order id.
func (c *TradingClient) CancelOrder(orderID string) CancelOrderRequest {
	return c.cancelOrder(CancelOrderParams{OrderID: []string{orderID}, Token: c.Token()})
}

// CancelOrders builds a cancel_order request for multiple order ids.
func (c *TradingClient) CancelOrders(orderIDs []string) CancelOrderRequest {
	return c.cancelOrder(CancelOrderParams{OrderID: orderIDs, Token: c.Token()})
}

// CancelByClientID builds a cancel_order request keyed by client order id.
func (c *TradingClient) CancelByClientID(clOrdID string) CancelOrderRequest {
	ids := []string{clOrdID}
	return c.cancelOrder(CancelOrderParams{ClOrdID: &ids, Token: c.Token()})
}

func (c *TradingClient) cancelOrder(params CancelOrderParams) CancelOrderRequest {
	reqID := c.nextReqID()
	return CancelOrderRequest{Method: "cancel_order", ReqID: &reqID, Params: params}
}

// CancelAll builds a cancel_all request canceling every open order.
func (c *TradingClient) CancelAll() CancelAllRequest {
	reqID := c.nextReqID()
	return CancelAllRequest{Method: "cancel_all", ReqID: &reqID, Params: CancelAllParams{Token: c.Token()}}
}

// CancelOnDisconnect builds a cancel_all_orders_after dead man's switch
// request. A timeout of 0 disables the switch.
func (c *TradingClient) CancelOnDisconnect(timeoutSeconds uint32) CancelOnDisconnectRequest {
	reqID := c.nextReqID()
	return CancelOnDisconnectRequest{
		Method: "cancel_all_orders_after",
		ReqID:  &reqID,
		Params: CancelOnDisconnectParams{Timeout: timeoutSeconds, Token: c.Token()},
	}
}

// BatchAdd builds a batch_add request submitting every order atomically.
func (c *TradingClient) BatchAdd(symbol string, orders []BatchOrder) BatchAddRequest {
	return c.batchAdd(symbol, orders, nil)
}

// BatchAddValidate builds a batch_add request in validate-only mode,
// checking every order without actually submitting it.
func (c *TradingClient) BatchAddValidate(symbol string, orders []BatchOrder) BatchAddRequest {
	return c.batchAdd(symbol, orders, boolPtr(true))
}

func (c *TradingClient) batchAdd(symbol string, orders []BatchOrder, validate *bool) BatchAddRequest {
	reqID := c.nextReqID()
	return BatchAddRequest{
		Method: "batch_add",
		ReqID:  &reqID,
		Params: BatchAddParams{Orders: orders, Token: c.Token(), Symbol: symbol, Validate: validate},
	}
}

// BatchCancel builds a batch_cancel request canceling every listed order id.
func (c *TradingClient) BatchCancel(orderIDs []string) BatchCancelRequest {
	reqID := c.nextReqID()
	return BatchCancelRequest{
		Method: "batch_cancel",
		ReqID:  &reqID,
		Params: BatchCancelParams{Orders: orderIDs, Token: c.Token()},
	}
}
