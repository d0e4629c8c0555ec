// Package models defines the plain data records shared by every todox backend.
//
// Records are values, not live references:
//   - [User] : an account, with the password kept out of JSON output
//   - [Owner] : the snapshot of a user embedded in a [List] when it is created
//   - [List] : a titled task list owning its [Task] sequence
//   - [Task] : a todo item whose Content is a JSON-encoded [TaskContent]
//   - [TaskPatch] : a partial task update where nil fields are left unchanged
//   - [AuthResult] : the opaque token and user id returned by sign-in
//   - [Session] : the persisted sign-in state of the local client
//
// An [Owner] is copied, never shared: renaming a user does not rename the owner of lists it already holds.
package models
