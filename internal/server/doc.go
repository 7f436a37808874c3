// Package server exposes an editor session over HTTP.
//
// The JSON API mirrors the operations of editor.Session. Every change to
// the session is pushed to socket.io clients as a "document" event carrying
// an editor.Event.
package server
