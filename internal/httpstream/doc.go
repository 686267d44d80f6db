// If you are AI: This file documents package scope only; no logic lives here.

// Package httpstream is the boundary glue between net/http request and
// response bodies and the broadcast engine, named by analogy to the
// teacher's internal/svc/httpflv (its own HTTP-to-bus adapter). It
// implements exactly the three routes a publisher and its subscribers
// use: POST/PUT to publish, GET/HEAD to subscribe, anything else 405.
package httpstream
