package marquee

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// PlaceholderText is shown instead of the strip when nothing is displayable.
const PlaceholderText = "Add testimonials data to display"

const placeholderStyle = "display:flex;align-items:center;justify-content:center;height:100%;color:#999;font-family:inherit;"

// reviewPolicy keeps line breaks and inline emphasis from review markup.
var reviewPolicy = newReviewPolicy()

func newReviewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("br", "b", "strong", "i", "em", "u", "s", "small", "span")
	return p
}

func buildPlaceholder() *html.Node {
	div := element("div", "", html.Attribute{Key: "style", Val: placeholderStyle})
	div.AppendChild(textNode(PlaceholderText))
	return div
}

// strip is the mounted subtree of one render pass.
type strip struct {
	container *html.Node
	track     *html.Node
	reviews   []*html.Node
}

// buildStrip lays out container > wrapper > track > cards, with the scoped
// sheet appended to the container.
func buildStrip(c classNames, display []Testimonial, css string) strip {
	container := element("div", c.container)
	wrapper := element("div", c.wrapper)
	track := element("div", c.track)

	reviews := make([]*html.Node, 0, len(display))
	for _, t := range display {
		card, review := buildCard(c, t)
		track.AppendChild(card)
		reviews = append(reviews, review)
	}
	wrapper.AppendChild(track)
	container.AppendChild(wrapper)

	style := element("style", "")
	style.AppendChild(textNode(css))
	container.AppendChild(style)

	return strip{container: container, track: track, reviews: reviews}
}

func buildCard(c classNames, t Testimonial) (card, review *html.Node) {
	card = element("div", c.card)

	header := element("div", c.header)
	alt := t.Name
	if alt == "" {
		alt = "Avatar"
	}
	avatar := element("img", c.avatar,
		html.Attribute{Key: "src", Val: FixAvatarURL(t.Avatar, "")},
		html.Attribute{Key: "alt", Val: alt},
	)

	content := element("div", c.headerContent)
	name := element("div", c.name)
	name.AppendChild(textNode(t.Name))
	title := element("div", c.title)
	title.AppendChild(textNode(t.Title))
	content.AppendChild(name)
	content.AppendChild(title)

	header.AppendChild(avatar)
	header.AppendChild(content)

	review = element("div", c.review)
	for _, n := range reviewNodes(t.Review) {
		review.AppendChild(n)
	}

	card.AppendChild(header)
	card.AppendChild(review)
	return card, review
}

// reviewNodes turns review text into nodes: newlines become <br>, and any
// markup is reduced to the review policy.
func reviewNodes(review string) []*html.Node {
	if review == "" {
		return nil
	}
	markup := reviewPolicy.Sanitize(strings.ReplaceAll(review, "\n", "<br>"))
	nodes, err := html.ParseFragment(strings.NewReader(markup), element("div", ""))
	if err != nil {
		return []*html.Node{textNode(review)}
	}
	return nodes
}
