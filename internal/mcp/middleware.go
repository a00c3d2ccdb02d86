package mcp

import (
	"context"
	"strings"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const (
	voterKey contextKey = iota
	sessionIDKey
)

// defaultSessionID keys the browse session of a client that sends no
// session id, such as a single stdio client.
const defaultSessionID = "default"

// getVoter extracts the authenticated voter from context.
func getVoter(ctx context.Context) (rating.Voter, bool) {
	v, ok := ctx.Value(voterKey).(rating.Voter)
	if ok {
		return v, true
	}
	return transport.VoterFromContext(ctx)
}

// getSessionID extracts the browse session ID from context.
func getSessionID(ctx context.Context) string {
	if v, _ := ctx.Value(sessionIDKey).(string); v != "" {
		return v
	}
	return defaultSessionID
}

// authMiddleware resolves a voter from the bearer token. Requests without a
// token pass through anonymously; a bad token is rejected.
func authMiddleware(secret string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return next(ctx, method, req)
			}
			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return next(ctx, method, req)
			}

			voter, err := transport.ParseVoterToken(secret, token)
			if err != nil {
				return nil, errUnauthorized
			}
			ctx = context.WithValue(ctx, voterKey, voter)
			return next(ctx, method, req)
		}
	}
}

// sessionMiddleware extracts the session ID from the Mcp-Session-Id header
// (HTTP), request metadata (stdio) or the transport session.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				sessionID = extra.Header.Get("Mcp-Session-Id")
			}

			// Some notifications carry nil params, and GetMeta on a typed nil
			// panics inside the SDK.
			if sessionID == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if sid, ok := meta["session_id"].(string); ok {
								sessionID = sid
							}
						}
					}()
				}
			}

			if sessionID == "" {
				sessionID = safeSessionID(req)
			}
			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}

			return next(ctx, method, req)
		}
	}
}
