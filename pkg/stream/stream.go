// Package stream implements the streaming embedder: a per-session
// handler that buffers chunks of text and embeds a pre-signed legacy
// payload into the stream at the first viable site, exactly once.
//
// C2PA streaming is not supported here — hard binding needs a final
// byte length to compute exclusion ranges over, which an unfinished
// stream does not have. Streaming sessions always use the legacy
// envelope and legacy site-selection policy.
package stream

import (
	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/legacysign"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
	"github.com/encypherai/encypher-ai/pkg/sitepolicy"
)

// Options configures a Handler's embedding behavior. It mirrors the
// legacy-only subset of embed.Options: there is no AddHardBinding here,
// since streaming sessions never compute a hard binding.
type Options struct {
	Target                  sitepolicy.Target
	DistributeAcrossTargets bool
	DistributionFanout      int
}

func (o Options) target() sitepolicy.Target {
	if o.Target == "" {
		return sitepolicy.TargetEndOfTextWithFEFF
	}
	return o.Target
}

func (o Options) fanout() int {
	if o.DistributionFanout <= 0 {
		return 3
	}
	return o.DistributionFanout
}

// Handler owns one streaming session's mutable state: a text buffer and
// whether the payload has already been embedded. It is not safe for
// concurrent use by multiple goroutines; independent Handlers may run
// concurrently.
type Handler struct {
	buffer   string
	embedded bool

	envelopeBytes []byte
	opts          Options
}

// NewHandler signs payloadBytes once up front via signer (streamed hard
// binding is never computed, so the signature never needs to change
// mid-session) and returns a Handler ready to process chunks.
func NewHandler(payloadBytes []byte, formatTag manifest.FormatTag, signer signing.Signer, opts Options) (*Handler, error) {
	env, err := legacysign.Sign(payloadBytes, signer, formatTag)
	if err != nil {
		return nil, err
	}
	envelopeBytes, err := manifest.MarshalCBOR(env)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.InvalidPayload, err)
	}
	return &Handler{envelopeBytes: envelopeBytes, opts: opts}, nil
}

// ProcessChunk appends chunk to the session buffer. Once the payload is
// embedded, every call drains and returns the buffer verbatim. Until
// then, each call attempts an embed against the buffered text so far;
// it returns the processed text (and flips to embedded) on the first
// chunk that offers a viable site, or an empty string while it keeps
// buffering.
func (h *Handler) ProcessChunk(chunk string) string {
	h.buffer += chunk

	if h.embedded {
		out := h.buffer
		h.buffer = ""
		return out
	}

	result, err := h.tryEmbed(h.buffer)
	if err != nil {
		return ""
	}
	h.embedded = true
	h.buffer = ""
	return result
}

// Finalize attempts one last embed against any remaining buffer if the
// payload hasn't landed yet, then resets the session. If no viable site
// is ever found, the raw buffered text is returned unmodified — the
// stream will carry no provenance.
func (h *Handler) Finalize() string {
	out := h.buffer
	if !h.embedded {
		if result, err := h.tryEmbed(h.buffer); err == nil {
			out = result
		}
	}
	h.Reset()
	return out
}

// Reset clears the session buffer and embedded flag. It is the only
// supported mid-stream cancellation; no previously emitted output can
// be retracted.
func (h *Handler) Reset() {
	h.buffer = ""
	h.embedded = false
}

func (h *Handler) tryEmbed(text string) (string, error) {
	if h.opts.DistributeAcrossTargets {
		return sitepolicy.InsertDistributed(text, h.opts.target(), h.envelopeBytes, h.opts.fanout())
	}
	return sitepolicy.Insert(text, h.opts.target(), h.envelopeBytes)
}
