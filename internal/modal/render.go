package modal

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func defaultRenderers() map[Kind]Renderer {
	return map[Kind]Renderer{
		KindAddToCart: Typed("Added to cart", func(p CartPayload) string {
			line := fmt.Sprintf("%d × %s", max(p.Quantity, 1), p.Product)
			var opts []string
			if p.Size != "" {
				opts = append(opts, "size "+p.Size)
			}
			if p.Color != "" {
				opts = append(opts, p.Color)
			}
			if len(opts) > 0 {
				line += " (" + strings.Join(opts, ", ") + ")"
			}
			total := p.UnitPrice * float64(max(p.Quantity, 1))
			return line + "\n" +
				printer.Sprintf("Subtotal: $%.2f", total) + "\n" +
				printer.Sprintf("Items in cart: %d", p.CartItems)
		}),
		KindShareProduct: Typed("Share product", shareBody),
		KindShareVideo:   Typed("Share video", shareBody),
		KindSizeGuide: Typed("Size guide", func(p SizeGuidePayload) string {
			var b strings.Builder
			b.WriteString(p.Product + "\n")
			b.WriteString(fmt.Sprintf("%-4s %6s %6s", "Size", "Chest", "Waist"))
			for _, r := range p.Sizes {
				mark := " "
				if r.Size == p.Selected {
					mark = "›"
				}
				b.WriteString(fmt.Sprintf("\n%s%-3s %6d %6d", mark, r.Size, r.Chest, r.Waist))
			}
			return b.String()
		}),
		KindSubscribe: Typed("Subscribed", func(p SubscribePayload) string {
			return printer.Sprintf("You're now subscribed to %s.\n%d subscribers", p.Channel, p.Subscribers)
		}),
		KindUploadComplete:   Typed("Upload complete", transferBody("uploaded")),
		KindDownloadComplete: Typed("Download complete", transferBody("downloaded")),
		KindTransferCanceled: Typed("Transfer cancelled", func(p TransferPayload) string {
			return fmt.Sprintf("%s was cancelled. Progress has been reset.", p.File)
		}),
		KindExportReport: Typed("Report exported", func(p ReportPayload) string {
			return printer.Sprintf("%s (%s)\n%d rows written", p.Name, p.Range, p.Rows)
		}),
		KindCreateEnv: func(payload any) (string, string) {
			return "Add environment variable", genericBody(payload)
		},
		KindEnvCreated: Typed("Environment variable created", func(p EnvVarPayload) string {
			return fmt.Sprintf("%s (%s) added to %s\nTargets: %s", p.Key, p.Type, p.Project, strings.Join(p.Target, ", "))
		}),
		KindAPIError: Typed("Request failed", func(p ErrorPayload) string {
			if p.Op == "" {
				return p.Message
			}
			return p.Op + ": " + p.Message
		}),
	}
}

func shareBody(p SharePayload) string {
	return fmt.Sprintf("%s\n%s\nLink copied.", p.Title, p.URL)
}

func transferBody(verb string) func(TransferPayload) string {
	return func(p TransferPayload) string {
		s := fmt.Sprintf("%s %s", p.File, verb)
		if p.Bytes > 0 {
			s += " (" + humanize.Bytes(p.Bytes) + ")"
		}
		if d := p.Elapsed.Round(100 * time.Millisecond); d > 0 {
			s += " in " + d.String()
		}
		return s + "."
	}
}
