// Package batch applies one transformation to many inputs concurrently.
//
// The CLI's --lines mode uses it to encode, decode or hash every input line
// independently. Results keep input order. A failing item records its error
// and does not stop the others; cancelling the context does.
package batch
