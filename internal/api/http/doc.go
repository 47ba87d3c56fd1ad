// Package http implements the REST handlers of the tab API: opening and
// closing tabs, focus, manual pipeline control and drift correction.
//
// Handlers answer with gin.H bodies. Errors carry an "error" field; unknown
// tabs are 404, unknown kinds or slots 400 and requests racing a tab close
// 409.
package http
