package hocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Parse converts raw hOCR data into a Document. It returns an error when
// the input cannot be parsed as HTML or contains no ocr_page elements.
func Parse(data []byte) (*Document, error) {
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return nil, fmt.Errorf("hocr: parse html: %w", err)
	}

	doc := &Document{}
	extractHead(doc, root)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.Contains(attrVal(n, "class"), "ocr_page") {
			doc.Pages = append(doc.Pages, parsePage(n, len(doc.Pages)+1))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(root)

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("hocr: no ocr_page elements found")
	}
	return doc, nil
}

// decodeToUTF8 sniffs the charset declaration and converts legacy
// ISO-8859-1 content to UTF-8; anything else is passed through unchanged.
func decodeToUTF8(data []byte) ([]byte, error) {
	content := string(data)
	marker := strings.Index(content, "charset=")
	if marker < 0 {
		return data, nil
	}
	rest := content[marker+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' '
	})
	if len(fields) == 0 {
		return data, nil
	}
	enc := strings.ToLower(fields[0])
	if enc == "" || enc == "utf-8" || enc == "utf8" {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("hocr: decode %s: %w", enc, err)
	}
	return decoded, nil
}

// extractHead pulls the title, language, and ocr-system meta out of the
// document head.
func extractHead(doc *Document, root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				for _, a := range n.Attr {
					if a.Key == "lang" || a.Key == "xml:lang" {
						doc.Language = a.Val
					}
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if attrVal(n, "name") == "ocr-system" {
					doc.System = attrVal(n, "content")
				}
			case "body":
				return // head properties only
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// parsePage collects every ocrx_word under one ocr_page element, in
// document order, regardless of the area/paragraph/line nesting between
// them.
func parsePage(n *html.Node, position int) Page {
	page := Page{Number: position}

	props := parseTitle(attrVal(n, "title"))
	if bbox, ok := bboxFromProps(props); ok {
		page.Width = bbox[2]
		page.Height = bbox[3]
	}
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.Image = strings.Trim(image[0], `"`)
	}
	// ppageno is zero-based in hOCR.
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		if num, err := strconv.Atoi(ppageno[0]); err == nil && num >= 0 {
			page.Number = num + 1
		}
	}

	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && strings.Contains(attrVal(node, "class"), "ocrx_word") {
			if w, ok := parseWord(node); ok {
				page.Words = append(page.Words, w)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c)
	}
	return page
}

// parseWord extracts one word's text, bounding box and confidence.
// Words without a usable bbox are dropped.
func parseWord(n *html.Node) (Word, bool) {
	props := parseTitle(attrVal(n, "title"))
	bbox, ok := bboxFromProps(props)
	if !ok {
		return Word{}, false
	}
	w := Word{
		Text:   textContent(n),
		Left:   bbox[0],
		Top:    bbox[1],
		Width:  bbox[2] - bbox[0],
		Height: bbox[3] - bbox[1],
	}
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		w.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	return w, true
}

// parseTitle breaks an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95".
func parseTitle(title string) map[string][]string {
	props := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			props[items[0]] = items[1:]
		}
	}
	return props
}

// bboxFromProps reads the x1 y1 x2 y2 bbox property as integers.
func bboxFromProps(props map[string][]string) ([4]int, bool) {
	var out [4]int
	values, ok := props["bbox"]
	if !ok || len(values) < 4 {
		return out, false
	}
	for i := 0; i < 4; i++ {
		v, err := strconv.Atoi(values[i])
		if err != nil {
			return out, false
		}
		out[i] = v
	}
	return out, true
}

// textContent gathers all text under a node.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var text string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text += textContent(c)
	}
	return strings.TrimSpace(text)
}

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
