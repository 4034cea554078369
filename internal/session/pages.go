package session

import (
	"slices"

	"demodeck/internal/modal"
)

// Product is the item shown on the product page.
type Product struct {
	Name   string
	Price  float64
	URL    string
	Sizes  []modal.SizeRow
	Colors []string
}

// ProductPage is the product page state. Quantity is always within
// [MinQuantity, MaxQuantity].
type ProductPage struct {
	Product   Product
	Size      string
	Color     string
	Quantity  int
	CartItems int
}

const (
	MinQuantity = 1
	MaxQuantity = 10
)

// Video is the item shown on the video page.
type Video struct {
	Title    string
	Channel  string
	URL      string
	Views    int
	Duration string
}

// VideoPage is the video page state.
type VideoPage struct {
	Video       Video
	Subscribers int
	Subscribed  bool
	Liked       bool
	Likes       int
}

// Metric is one headline number on the analytics page.
type Metric struct {
	Name   string
	Value  float64
	Unit   Unit
	Change float64 // percent vs. previous period
}

// AnalyticsPage is the analytics dashboard state.
type AnalyticsPage struct {
	Range   string
	Ranges  []string
	Metrics []Metric
}

// Analytics ranges.
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
)

func rangeDays(r string) int {
	switch r {
	case Range7d:
		return 7
	case Range90d:
		return 90
	default:
		return 30
	}
}

func defaultProductPage() ProductPage {
	p := Product{
		Name:  "Everyday Hoodie",
		Price: 64,
		URL:   "https://shop.demodeck.dev/p/everyday-hoodie",
		Sizes: []modal.SizeRow{
			{Size: "XS", Chest: 86, Waist: 71},
			{Size: "S", Chest: 92, Waist: 76},
			{Size: "M", Chest: 100, Waist: 84},
			{Size: "L", Chest: 108, Waist: 92},
			{Size: "XL", Chest: 116, Waist: 100},
		},
		Colors: []string{"Black", "Heather Grey", "Navy"},
	}
	return ProductPage{Product: p, Size: "M", Color: p.Colors[0], Quantity: 1}
}

func defaultVideoPage() VideoPage {
	return VideoPage{
		Video: Video{
			Title:    "Building terminal dashboards in Go",
			Channel:  "Terminal Tales",
			URL:      "https://video.demodeck.dev/watch?v=tui-go-101",
			Views:    1204338,
			Duration: "18:42",
		},
		Subscribers: 128400,
		Likes:       4210,
	}
}

// daily baselines the analytics metrics are scaled from.
var dailyBase = []Metric{
	{Name: "Revenue", Value: 1523.40, Unit: UnitCurrency, Change: 12.5},
	{Name: "Visitors", Value: 3180, Unit: UnitCount, Change: 4.1},
	{Name: "Orders", Value: 42, Unit: UnitCount, Change: -2.3},
	{Name: "Conversion", Value: 1.32, Unit: UnitPercent, Change: 0.4},
}

func metricsFor(r string) []Metric {
	days := float64(rangeDays(r))
	out := make([]Metric, len(dailyBase))
	for i, m := range dailyBase {
		if m.Unit != UnitPercent {
			m.Value *= days
		}
		out[i] = m
	}
	return out
}

func defaultAnalyticsPage() AnalyticsPage {
	return AnalyticsPage{
		Range:   Range30d,
		Ranges:  []string{Range7d, Range30d, Range90d},
		Metrics: metricsFor(Range30d),
	}
}

// AddToCart adds the selected quantity to the cart and opens the
// confirmation modal.
func (s *Session) AddToCart() {
	p := &s.Product
	p.CartItems += p.Quantity
	s.modals.Open(modal.KindAddToCart, modal.CartPayload{
		Product:   p.Product.Name,
		Size:      p.Size,
		Color:     p.Color,
		Quantity:  p.Quantity,
		UnitPrice: p.Product.Price,
		CartItems: p.CartItems,
	})
}

// ShareProduct opens the share modal for the product.
func (s *Session) ShareProduct() {
	s.modals.Open(modal.KindShareProduct, modal.SharePayload{
		Title: s.Product.Product.Name,
		URL:   s.Product.Product.URL,
	})
}

// ShowSizeGuide opens the size chart with the current size marked.
func (s *Session) ShowSizeGuide() {
	s.modals.Open(modal.KindSizeGuide, modal.SizeGuidePayload{
		Product:  s.Product.Product.Name,
		Sizes:    slices.Clone(s.Product.Product.Sizes),
		Selected: s.Product.Size,
	})
}

// SelectSize picks a size from the chart. Unknown sizes are ignored.
func (s *Session) SelectSize(size string) bool {
	for _, r := range s.Product.Product.Sizes {
		if r.Size == size {
			s.Product.Size = size
			return true
		}
	}
	return false
}

// SelectColor picks a colour. Unknown colours are ignored.
func (s *Session) SelectColor(color string) bool {
	if !slices.Contains(s.Product.Product.Colors, color) {
		return false
	}
	s.Product.Color = color
	return true
}

// SetQuantity clamps n into [MinQuantity, MaxQuantity].
func (s *Session) SetQuantity(n int) {
	s.Product.Quantity = min(max(n, MinQuantity), MaxQuantity)
}

// CycleSize moves the size selection by delta, wrapping around.
func (s *Session) CycleSize(delta int) {
	sizes := s.Product.Product.Sizes
	if len(sizes) == 0 {
		return
	}
	i := slices.IndexFunc(sizes, func(r modal.SizeRow) bool { return r.Size == s.Product.Size })
	s.Product.Size = sizes[wrap(i+delta, len(sizes))].Size
}

// CycleColor moves the colour selection by delta, wrapping around.
func (s *Session) CycleColor(delta int) {
	colors := s.Product.Product.Colors
	if len(colors) == 0 {
		return
	}
	i := slices.Index(colors, s.Product.Color)
	s.Product.Color = colors[wrap(i+delta, len(colors))]
}

// ToggleSubscribe flips the subscription and adjusts the count. Only
// subscribing opens a modal.
func (s *Session) ToggleSubscribe() {
	v := &s.Video
	v.Subscribed = !v.Subscribed
	if !v.Subscribed {
		v.Subscribers--
		return
	}
	v.Subscribers++
	s.modals.Open(modal.KindSubscribe, modal.SubscribePayload{
		Channel:     v.Video.Channel,
		Subscribers: v.Subscribers,
	})
}

// ToggleLike flips the like and adjusts the count.
func (s *Session) ToggleLike() {
	v := &s.Video
	v.Liked = !v.Liked
	if v.Liked {
		v.Likes++
	} else {
		v.Likes--
	}
}

// ShareVideo opens the share modal for the video.
func (s *Session) ShareVideo() {
	s.modals.Open(modal.KindShareVideo, modal.SharePayload{
		Title: s.Video.Video.Title,
		URL:   s.Video.Video.URL,
	})
}

// SetRange switches the analytics period and recomputes the metrics.
// Unknown ranges are ignored.
func (s *Session) SetRange(r string) bool {
	if !slices.Contains(s.Analytics.Ranges, r) {
		return false
	}
	s.Analytics.Range = r
	s.Analytics.Metrics = metricsFor(r)
	return true
}

// CycleRange moves the analytics period by delta, wrapping around.
func (s *Session) CycleRange(delta int) {
	rs := s.Analytics.Ranges
	i := slices.Index(rs, s.Analytics.Range)
	s.SetRange(rs[wrap(i+delta, len(rs))])
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
