package ui

import (
	"fmt"
	"strings"

	"demodeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// ProductView is the store product page.
type ProductView struct {
	sess *session.Session
}

var _ View = (*ProductView)(nil)

// NewProductView creates the product page for sess.
func NewProductView(sess *session.Session) *ProductView {
	return &ProductView{sess: sess}
}

// Init implements View.
func (p *ProductView) Init() tea.Cmd { return nil }

// Update implements View.
func (p *ProductView) Update(msg tea.Msg) (View, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	s := p.sess
	switch k.String() {
	case "+", "=":
		s.SetQuantity(s.Product.Quantity + 1)
	case "-", "_":
		s.SetQuantity(s.Product.Quantity - 1)
	case "right", "l":
		s.CycleSize(1)
	case "left", "h":
		s.CycleSize(-1)
	case "c":
		s.CycleColor(1)
	case "a", "enter":
		s.AddToCart()
	case "g":
		s.ShowSizeGuide()
	case "s":
		s.ShareProduct()
	}
	return p, nil
}

// View implements View.
func (p *ProductView) View() string {
	pg := p.sess.Product
	var b strings.Builder

	b.WriteString(Styles.Title.Render(pg.Product.Name) + "  " + Styles.Muted.Render(fmt.Sprintf("🛒 %d", pg.CartItems)) + "\n")
	b.WriteString(Styles.Price.Render(fmt.Sprintf("$%.2f", pg.Product.Price)) + "\n\n")

	b.WriteString(Styles.Muted.Render("Size   "))
	for _, r := range pg.Product.Sizes {
		if r.Size == pg.Size {
			b.WriteString(Styles.Selected.Render("["+r.Size+"]") + " ")
		} else {
			b.WriteString(" " + r.Size + "  ")
		}
	}
	b.WriteString("\n" + Styles.Muted.Render("Color  "))
	for _, c := range pg.Product.Colors {
		if c == pg.Color {
			b.WriteString(Styles.Selected.Render("● "+c) + "  ")
		} else {
			b.WriteString("○ " + c + "  ")
		}
	}
	b.WriteString("\n" + Styles.Muted.Render("Qty    ") + fmt.Sprintf("- %d +", pg.Quantity) + "\n\n")
	b.WriteString(Styles.Muted.Render("h/l: size  c: color  +/-: qty  a: add to cart  g: size guide  s: share"))
	return b.String()
}
