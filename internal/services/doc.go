// Package services defines the [Service] interface for task-list backends and implements it for
// the remote GraphQL API and the in-memory demo store.
//
// # Backends
//
// [GraphService] talks to the GraphQL API through [GraphClient], which POSTs {"query", "variables"}
// documents and unwraps the {"data", "errors"} envelope. The session token is attached as a bearer
// token by an [oauth2.Transport] built from a static token source.
//
// [DemoService] adapts a [demo.Store] to the same contract so demo accounts behave like real ones.
//
// # Routing
//
// [Resolver] picks the backend for a username: names with the demo prefix go to the demo store,
// everything else to the remote API.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrDuplicateUsername] : sign-up with a taken username
//   - [shared.ErrInvalidCredentials] : sign-in rejected
//   - [shared.ErrListNotFound] : task created in a missing list
//   - [shared.ErrAPIRequest] : HTTP or GraphQL failure
//
// # Search
//
// [FilterLists] ranks lists by fuzzy title match and [FilterTasks] applies the all/active/completed filter.
package services
