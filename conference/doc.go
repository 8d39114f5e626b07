// Package conference implements the booking saga: the Conference seating
// aggregate, the Order aggregate tracking one customer's outcome, the
// PaymentAccount charged for a seat, and the stateless process manager that
// carries the saga between them over the event bus.
//
// Business refusals (no seat left, insufficient funds) are ordinary events,
// never errors - they must propagate to the other aggregates asynchronously.
// The only compensation is seat release after a refused payment.
package conference
