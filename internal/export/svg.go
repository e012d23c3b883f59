package export

import (
	"bufio"
	"fmt"
	"io"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%dpx" height="%dpx" viewBox="0 0 %d %d" version="1.1" xmlns="http://www.w3.org/2000/svg">
	<title>contours</title>
	<g id="contours" fill="none" stroke="#000000" stroke-width="1" fill-rule="evenodd">
`

// writeSVG emits each line as a closed path. Points sit on pixel centers.
func writeSVG(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, svgHeader, doc.Width, doc.Height, doc.Width, doc.Height)
	for i, pts := range doc.Lines {
		if len(pts) == 0 {
			continue
		}
		fmt.Fprintf(bw, "\t\t<path id=\"line-%d\" d=\"", i)
		for j, p := range pts {
			cmd := "L"
			if j == 0 {
				cmd = "M"
			}
			fmt.Fprintf(bw, "%s%g,%g ", cmd, float64(p.X)+0.5, float64(p.Y)+0.5)
		}
		bw.WriteString("Z\"/>\n")
	}
	bw.WriteString("\t</g>\n</svg>\n")
	return bw.Flush()
}
