// Package banking implements the event-sourced banking Account aggregate and
// the two-party funds-transfer choreography.
//
// A transfer between two accounts never touches both streams in one unit of
// work. The sender records TransferRequested, the process manager asks the
// receiver to credit, and the receiver's decision (FundCredited or
// CreditRequestRefused) travels back the same way until the sender either
// debits or aborts. Balances only ever change through FundCredited and
// FundDebited, so an aborted transfer needs no rollback.
package banking
