// Package models defines the persisted domain records for Slipwise.
//
// # Records
//
//   - User: a registered account; members of groups are referenced by User.ID
//   - Group: a set of members who share expenses
//   - Expense: an amount paid by one member, divided into ExpenseSplit rows
//   - Settlement: a direct payment from one member to another
//   - JoinRequest: a pending, approved or rejected request to join a group
//
// Amounts are stored as money.Cents. Relationships use ID strings rather than
// pointers, and every timestamp is a Unix time in seconds.
//
// Derived values (pairwise debts, net positions, simplified transfers) are not
// models; they live in the calculator package and are recomputed per request.
package models
