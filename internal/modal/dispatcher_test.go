package modal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_StartsClosed(t *testing.T) {
	d := NewDispatcher()
	_, ok := d.Render()
	assert.False(t, ok)
	assert.Equal(t, None, d.Active())
	assert.False(t, d.State().Open())
}

func TestDispatcher_OpenThenRenderIsKeyedToKind(t *testing.T) {
	d := NewDispatcher()
	d.Open(KindAddToCart, CartPayload{Product: "Trail Runner", Size: "M", Color: "Black", Quantity: 2, UnitPrice: 89.5, CartItems: 3})

	c, ok := d.Render()
	require.True(t, ok)
	assert.Equal(t, KindAddToCart, c.Kind)
	assert.Equal(t, "Added to cart", c.Title)
	assert.False(t, c.Fallback)
	assert.Contains(t, c.Body, "2 × Trail Runner (size M, Black)")
	assert.Contains(t, c.Body, "Subtotal: $179.00")
	assert.Contains(t, c.Body, "Items in cart: 3")
}

func TestDispatcher_CloseThenRenderIsEmpty(t *testing.T) {
	d := NewDispatcher()
	d.Open(KindShareVideo, SharePayload{Title: "Intro", URL: "https://example.test/v/1"})
	d.Close()

	_, ok := d.Render()
	assert.False(t, ok)
	assert.Nil(t, d.State().Payload)
}

func TestDispatcher_OpenReplacesWithoutStacking(t *testing.T) {
	d := NewDispatcher()
	d.Open(KindShareProduct, SharePayload{Title: "A"})
	d.Open(KindSubscribe, SubscribePayload{Channel: "B", Subscribers: 10})

	c, ok := d.Render()
	require.True(t, ok)
	assert.Equal(t, KindSubscribe, c.Kind)
	assert.NotContains(t, c.Body, "A\n")

	d.Close()
	_, ok = d.Render()
	assert.False(t, ok, "closing once must leave nothing underneath")
}

func TestDispatcher_UnknownKindFallsBack(t *testing.T) {
	d := NewDispatcher()
	assert.NotPanics(t, func() { d.Open(Kind("add-to-crat"), nil) })

	c, ok := d.Render()
	require.True(t, ok)
	assert.True(t, c.Fallback)
	assert.Equal(t, "Notice", c.Title)
	assert.Contains(t, c.Body, `"add-to-crat"`)
	assert.Contains(t, c.Body, `Did you mean "add-to-cart"?`)
}

func TestDispatcher_UnknownKindWithoutCloseMatch(t *testing.T) {
	d := NewDispatcher()
	d.Open(Kind("something-else-entirely"), 42)

	c, ok := d.Render()
	require.True(t, ok)
	assert.True(t, c.Fallback)
	assert.NotContains(t, c.Body, "Did you mean")
}

func TestDispatcher_WrongPayloadTypeRendersGenericBody(t *testing.T) {
	d := NewDispatcher()
	d.Open(KindUploadComplete, "not a transfer")

	c, ok := d.Render()
	require.True(t, ok)
	assert.False(t, c.Fallback)
	assert.Equal(t, "Upload complete", c.Title)
	assert.Equal(t, "not a transfer", c.Body)

	d.Open(KindUploadComplete, 3.14)
	c, _ = d.Render()
	assert.Equal(t, "Done.", c.Body)
}

func TestDispatcher_OpenNoneCloses(t *testing.T) {
	d := NewDispatcher()
	d.Open(KindSubscribe, SubscribePayload{})
	d.Open(None, "ignored")
	assert.False(t, d.State().Open())
}

func TestDispatcher_AnyKindMayFollowAnyOther(t *testing.T) {
	d := NewDispatcher()
	kinds := d.Kinds()
	for _, a := range kinds {
		for _, b := range kinds {
			d.Open(a, nil)
			d.Open(b, nil)
			c, ok := d.Render()
			require.True(t, ok)
			require.Equal(t, b, c.Kind)
		}
	}
}

func TestDispatcher_RegisterAndHook(t *testing.T) {
	var opened []Kind
	d := NewDispatcher(WithOpenHook(func(k Kind) { opened = append(opened, k) }))
	custom := Kind("promo")
	require.False(t, d.Known(custom))

	d.Register(custom, Typed("Promo", func(code string) string { return "Use code " + code }))
	require.True(t, d.Known(custom))

	d.Open(custom, "SAVE10")
	c, _ := d.Render()
	assert.Equal(t, "Use code SAVE10", c.Body)
	assert.Equal(t, []Kind{custom}, opened)
}

func TestDispatcher_SetPayload(t *testing.T) {
	d := NewDispatcher()
	d.SetPayload("ignored while closed")
	assert.Nil(t, d.State().Payload)

	d.Open(KindAPIError, ErrorPayload{Message: "first"})
	d.SetPayload(ErrorPayload{Op: "list env", Message: "HTTP 500"})
	c, _ := d.Render()
	assert.Equal(t, "list env: HTTP 500", c.Body)
}

type formStub struct{ text string }

func (f formStub) View() string { return f.text }

func TestDispatcher_ViewerPayloadRendersItself(t *testing.T) {
	d := NewDispatcher()
	d.Open(KindCreateEnv, formStub{text: "KEY=[    ]"})
	c, ok := d.Render()
	require.True(t, ok)
	assert.Equal(t, "Add environment variable", c.Title)
	assert.Equal(t, "KEY=[    ]", c.Body)
}

func TestRenderers_Bodies(t *testing.T) {
	d := NewDispatcher()

	d.Open(KindDownloadComplete, TransferPayload{File: "clip.mp4", Bytes: 52_428_800, Elapsed: 3210 * time.Millisecond})
	c, _ := d.Render()
	assert.Equal(t, "clip.mp4 downloaded (52 MB) in 3.2s.", c.Body)

	d.Open(KindSubscribe, SubscribePayload{Channel: "Gopher TV", Subscribers: 1204001})
	c, _ = d.Render()
	assert.Contains(t, c.Body, "1,204,001 subscribers")

	d.Open(KindExportReport, ReportPayload{Name: "traffic.csv", Range: "Last 30 days", Rows: 12000})
	c, _ = d.Render()
	assert.Contains(t, c.Body, "12,000 rows written")

	d.Open(KindSizeGuide, SizeGuidePayload{Product: "Tee", Selected: "M", Sizes: []SizeRow{{"S", 88, 72}, {"M", 96, 80}}})
	c, _ = d.Render()
	assert.Contains(t, c.Body, "›M")

	d.Open(KindEnvCreated, EnvVarPayload{Project: "web", Key: "API_URL", Type: "plain", Target: []string{"production"}})
	c, _ = d.Render()
	assert.Equal(t, "API_URL (plain) added to web\nTargets: production", c.Body)

	d.Open(KindTransferCanceled, TransferPayload{File: "photo.raw"})
	c, _ = d.Render()
	assert.Contains(t, c.Body, "photo.raw was cancelled")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "subscribe", KindSubscribe.String())
}
