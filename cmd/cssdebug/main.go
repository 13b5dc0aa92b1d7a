// Command cssdebug renders a property file and prints the computed style of
// every strip element whose class starts with a prefix.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"slider/internal/config"
	"slider/marquee"
)

const sample = `[{"name": "Ann", "title": "CTO", "review": "Works as promised."}]`

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	props := marquee.Properties{marquee.PropTestimonials: sample}
	if len(os.Args) > 1 {
		p, err := config.LoadProperties(os.Args[1])
		if err != nil {
			logger.Fatal("load properties", zap.Error(err))
		}
		props = p
	}
	prefix := "testimonial-"
	if len(os.Args) > 2 {
		prefix = os.Args[2]
	}

	canvas := marquee.NewNodeCanvas()
	sched := marquee.NewManualScheduler()
	w := marquee.NewWidget(canvas, marquee.WithScheduler(sched), marquee.WithLogger(logger))
	defer w.Destroy()
	w.Update(props)
	sched.Advance(marquee.StartDelay)

	st := w.State()
	if st == nil {
		logger.Fatal("no testimonials to render")
	}
	ss, err := marquee.ParseStylesheet(st.CSS)
	if err != nil {
		logger.Fatal("parse stylesheet", zap.Error(err))
	}
	logger.Info("rendered", zap.String("id", st.ID), zap.Int("cards", len(st.Display)), zap.Strings("keyframes", ss.Keyframes()))

	seen := map[string]bool{}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			cls := strings.Fields(marquee.GetAttr(n, "class"))
			if len(cls) > 0 && strings.HasPrefix(cls[0], prefix) && !seen[cls[0]] {
				// cards repeat, one of each is enough
				seen[cls[0]] = true
				computed := marquee.ComputeStyle(n, ss)
				keys := make([]string, 0, len(computed))
				for k := range computed {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				fmt.Printf("node=%s classes=%v\n", n.Data, cls)
				for _, k := range keys {
					fmt.Printf("  %s: %s\n", k, computed[k])
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(canvas.Root)
}
