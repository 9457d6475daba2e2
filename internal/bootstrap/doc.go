// Package bootstrap reconciles the server-persisted SQL Lab session with
// the browser-persisted state that predates it, producing the initial state
// of the workspace.
//
// The reconciliation runs once per load, in four stages:
//  1. Editors: server tab records become query editors. The active tab is
//     fully populated, every other tab is a placeholder loaded on activation.
//  2. Tables: the active tab's described table schemas become tables.
//  3. Legacy overlay: browser-persisted editors, tables, queries and tab
//     history are merged over stages 1 and 2. An empty legacy editor list
//     means migration already happened and the legacy slot is cleared.
//  4. Assembly: everything is combined with pass-through session fields.
//
// Every stage returns new values; nothing handed to Build is modified.
package bootstrap
