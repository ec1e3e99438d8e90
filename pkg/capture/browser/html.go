package browser

import (
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/render/view"
)

const style = `body{margin:0;padding:16px;font:14px/1.4 system-ui,sans-serif;color:#111827}
.row{height:28px;display:flex;align-items:center}
.card{padding:2px 8px;border-radius:4px;white-space:nowrap}
.collapsed{outline:1px dashed #6b7280}`

// Document returns a standalone HTML page with one card per row, indented
// by depth.
func Document(rows []view.Row, background string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	b.WriteString(style)
	fmt.Fprintf(&b, "body{background:%s}", html.EscapeString(background))
	b.WriteString("</style></head><body>\n")
	for _, r := range rows {
		class := "card"
		if r.HasChildren && !r.Expanded {
			class += " collapsed"
		}
		fmt.Fprintf(&b, `<div class="row" style="padding-left:%dpx"><span class="%s" style="background:%s" data-serno="%d">%s</span></div>`+"\n",
			r.Depth*24, class, capture.Fill(r.Node.Attributes.Gender), r.SerNo(), html.EscapeString(capture.Label(r.Node)))
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
