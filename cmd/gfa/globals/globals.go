package globals

import (
	"context"
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/components/telemetry"
)

type key struct{}

type Value struct {
	Config Config
	Tel    telemetry.API
	Time   chrono.API
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
