package deck

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sehmus-akcakale/SnapLearn/vision"
)

// PresentationML geometry, in EMU (914400 per inch). Widescreen 16:9.
const (
	slideCx = 12192000 // 13.333 in
	slideCy = 6858000  // 7.5 in

	emuPerInch = 914400
)

const (
	colorTitle    = "1F497D"
	colorHeading  = "2E74B5"
	colorQuestion = "C0504D"
	colorBody     = "333333"
	colorSubtitle = "666666"
)

// Keep summaries from overflowing the notes slide, on both the native slide
// and its rasterized PDF page.
const maxSummaryChars = 800

func truncateSummary(s string) string {
	if len(s) > maxSummaryChars {
		return s[:maxSummaryChars] + "..."
	}
	return s
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// writePPTX serializes the slide list as a complete pptx package. The whole
// file is rewritten on every save; presentations stay small enough (tens of
// slides) that this is cheaper than tracking zip deltas.
func writePPTX(path string, slides []slide) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	write := func(name, content string) {
		if err != nil {
			return
		}
		var w io.Writer
		w, err = zw.Create(name)
		if err == nil {
			_, err = io.WriteString(w, content)
		}
	}

	write("[Content_Types].xml", contentTypesXML(len(slides)))
	write("_rels/.rels", rootRelsXML)
	write("ppt/presentation.xml", presentationXML(len(slides)))
	write("ppt/_rels/presentation.xml.rels", presentationRelsXML(len(slides)))
	write("ppt/slideMasters/slideMaster1.xml", slideMasterXML)
	write("ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML)
	write("ppt/slideLayouts/slideLayout1.xml", slideLayoutXML)
	write("ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML)
	write("ppt/theme/theme1.xml", themeXML)

	for i, s := range slides {
		n := i + 1
		write(fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(s))
		write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRelsXML(s, n))
		if s.kind == kindImage {
			if err != nil {
				break
			}
			var data []byte
			data, err = os.ReadFile(s.imagePath)
			if err != nil {
				err = fmt.Errorf("failed to read capture %s: %v", s.imagePath, err)
				break
			}
			var w io.Writer
			w, err = zw.Create(fmt.Sprintf("ppt/media/image%d.png", n))
			if err == nil {
				_, err = w.Write(data)
			}
		}
	}

	if err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func contentTypesXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func presentationXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, slideCx, slideCy)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const emptySpTree = `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const slideMasterXML = xmlHeader +
	`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld>` + emptySpTree + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlHeader +
	`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank" preserve="1">` +
	`<p:cSld name="Blank">` + emptySpTree + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const slideLayoutRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

// Minimal but complete theme; PowerPoint refuses masters without one.
const themeXML = xmlHeader +
	`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="SnapLearn">` +
	`<a:themeElements>` +
	`<a:clrScheme name="SnapLearn">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F497D"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="EEECE1"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="2E74B5"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="C0504D"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="9BBB59"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="8064A2"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="F79646"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0000FF"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="800080"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="SnapLearn">` +
	`<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="SnapLearn">` +
	`<a:fillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`<a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
	`</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`</a:theme>`

// para is one paragraph of a slide text box. Size is in hundredths of a
// point, the unit DrawingML uses.
type para struct {
	text   string
	size   int
	bold   bool
	color  string
	center bool
}

func slideXML(s slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>`)
	b.WriteString(emptySpTree)

	switch s.kind {
	case kindTitle:
		b.WriteString(textBox(2, "Title", inch(0.5), inch(2.5), slideCx-inch(1), inch(1.5), []para{
			{text: s.title, size: 4400, bold: true, color: colorHeading, center: true},
		}))
		b.WriteString(textBox(3, "Subtitle", inch(0.5), inch(4.0), slideCx-inch(1), inch(1), []para{
			{text: s.subtitle, size: 2000, color: colorSubtitle, center: true},
		}))
	case kindImage:
		b.WriteString(textBox(2, "Title", inch(0.3), inch(0.2), slideCx-inch(0.6), inch(0.6), []para{
			{text: s.title, size: 2400, bold: true, color: colorTitle},
		}))
		b.WriteString(picture(3, "rId2", (slideCx-inch(11))/2, inch(1.0), inch(11), inch(5.8)))
	case kindNotes:
		b.WriteString(textBox(2, "Title", inch(0.3), inch(0.2), slideCx-inch(0.6), inch(0.6), []para{
			{text: s.title, size: 2400, bold: true, color: colorTitle},
		}))
		b.WriteString(textBox(3, "Content", inch(0.5), inch(1.0), slideCx-inch(1), inch(6.0), notesParas(s)))
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func notesParas(s slide) []para {
	summary := truncateSummary(s.summary)
	ps := []para{
		{text: "Summary", size: 2400, bold: true, color: colorHeading},
		{text: summary, size: 1600, color: colorBody},
		{text: "", size: 1600, color: colorBody},
		{text: "Multiple Choice Question", size: 2400, bold: true, color: colorQuestion},
		{text: s.question.Prompt, size: 1600, color: colorBody},
	}
	for i, opt := range s.question.Options {
		ps = append(ps, para{
			text:  fmt.Sprintf("%s) %s", vision.Letter(i), opt),
			size:  1600,
			color: colorBody,
		})
	}
	if s.question.Correct >= 0 {
		ps = append(ps, para{
			text:  "Correct Answer: " + vision.Letter(s.question.Correct),
			size:  1600,
			bold:  true,
			color: colorBody,
		})
	}
	return ps
}

func slideRelsXML(s slide, n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	if s.kind == kindImage {
		fmt.Fprintf(&b, `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>`, n)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func textBox(id int, name string, x, y, w, h int, paras []para) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, x, y, w, h)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"><a:spAutoFit/></a:bodyPr><a:lstStyle/>`)
	for _, p := range paras {
		b.WriteString(`<a:p>`)
		if p.center {
			b.WriteString(`<a:pPr algn="ctr"/>`)
		}
		if p.text != "" {
			fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d"`, p.size)
			if p.bold {
				b.WriteString(` b="1"`)
			}
			b.WriteString(`><a:solidFill><a:srgbClr val="` + p.color + `"/></a:solidFill></a:rPr>`)
			b.WriteString(`<a:t>` + xmlEscaper.Replace(p.text) + `</a:t></a:r>`)
		}
		b.WriteString(`</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func picture(id int, relID string, x, y, w, h int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Capture"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, id)
	fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, x, y, w, h)
	return b.String()
}

func inch(v float64) int { return int(v * emuPerInch) }
