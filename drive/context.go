// Package drive is the versioned state-transition validation and execution
// pipeline. Given an ordered batch of raw, client-signed transitions and the
// prior chain state, every node running this pipeline must produce exactly
// the same accepted/rejected set and the same resulting state root.
package drive

import (
	"github.com/rs/zerolog"

	"github.com/dashpay/platform-engine/drive/triggers"
	"github.com/dashpay/platform-engine/version"
)

// Protocol maxima enforced by the structural validator.
const (
	MaxDocumentsPerBatch  = 10
	MaxPublicKeysPerOp    = 15
	MaxEntropyLength      = 32
	MaxDataContractTokens = 16
)

// Context configures one VM. It is immutable once the VM is constructed;
// per-block and per-transition mutable state lives in the execution context
// instead.
type Context struct {
	Log             zerolog.Logger
	ProtocolVersion uint32
	Triggers        *triggers.Registry
	DryRun          bool
	Metrics         *Metrics
	// ContractCacheSize bounds the per-block LRU of fetched data contracts.
	ContractCacheSize int
}

const defaultContractCacheSize = 128

func defaultContext() Context {
	return Context{
		Log:               zerolog.Nop(),
		ProtocolVersion:   version.Latest,
		Triggers:          triggers.NewRegistry(),
		ContractCacheSize: defaultContractCacheSize,
	}
}

// Option configures a Context.
type Option func(ctx Context) Context

// NewContext returns a Context with the given options applied.
func NewContext(opts ...Option) Context {
	ctx := defaultContext()
	for _, opt := range opts {
		ctx = opt(ctx)
	}
	return ctx
}

// NewContextFromParent spawns a child context, used to derive a dry-run
// admission context from the block-execution one.
func NewContextFromParent(parent Context, opts ...Option) Context {
	ctx := parent
	for _, opt := range opts {
		ctx = opt(ctx)
	}
	return ctx
}

func WithLogger(log zerolog.Logger) Option {
	return func(ctx Context) Context {
		ctx.Log = log
		return ctx
	}
}

// WithProtocolVersion pins the protocol version the VM validates and
// executes under. It must be registered in the version registry; ExecuteBlock
// fails fatally otherwise.
func WithProtocolVersion(v uint32) Option {
	return func(ctx Context) Context {
		ctx.ProtocolVersion = v
		return ctx
	}
}

func WithTriggerRegistry(registry *triggers.Registry) Option {
	return func(ctx Context) Context {
		ctx.Triggers = registry
		return ctx
	}
}

// WithDryRun marks the context as fee-estimation only: state validators
// produce optimistic actions without state version checks and nothing is
// flushed to the store.
func WithDryRun(dryRun bool) Option {
	return func(ctx Context) Context {
		ctx.DryRun = dryRun
		return ctx
	}
}

func WithMetrics(m *Metrics) Option {
	return func(ctx Context) Context {
		ctx.Metrics = m
		return ctx
	}
}

func WithContractCacheSize(size int) Option {
	return func(ctx Context) Context {
		ctx.ContractCacheSize = size
		return ctx
	}
}
