// Package demo implements the in-memory backend used for demo accounts.
//
// A [Store] holds users and lists, with every task embedded in exactly one list. It mirrors
// the behaviour of the remote API closely enough that the rest of the client cannot tell the
// two apart:
//
//   - ids have the form "{prefix}-{7 base36 chars}" and are not checked for collisions
//   - a list carries a copy of its owner taken at creation time
//   - deleting a list drops its tasks; deleting a user drops its lists
//   - renaming a list or updating a task that does not exist is not an error, but adding a
//     task to a missing list is ([ErrListNotFound])
//
// State lives only as long as the process.
package demo
