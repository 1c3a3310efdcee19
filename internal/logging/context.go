// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import "context"

// RequestInfo is the request data attached to mirrored events.
type RequestInfo struct {
	URL    string
	IP     string
	UserID int64
}

type requestInfoKey struct{}

// WithRequestInfo returns a context carrying info for the event log.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, &info)
}

// SetUserID records the authenticated user on a context created by
// WithRequestInfo. It is a no-op otherwise.
func SetUserID(ctx context.Context, userID int64) {
	if info, ok := ctx.Value(requestInfoKey{}).(*RequestInfo); ok {
		info.UserID = userID
	}
}

// RequestInfoFrom returns the request data stored by WithRequestInfo.
func RequestInfoFrom(ctx context.Context) RequestInfo {
	if info, ok := ctx.Value(requestInfoKey{}).(*RequestInfo); ok {
		return *info
	}
	return RequestInfo{}
}
