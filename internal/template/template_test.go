package template

import (
	"strings"
	"testing"
)

const testSectionXML = `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">
<hp:p paraPrIDRef="0" styleIDRef="0"><hp:run charPrIDRef="0"><hp:t>{{BODY}}</hp:t></hp:run></hp:p>
</hs:sec>`

func headerWithOutlineLevels(levels []int) string {
	var paraPr strings.Builder
	var styles strings.Builder
	paraPr.WriteString(`<hh:paraPr id="0"/>`)
	styles.WriteString(`<hh:style id="0" type="PARA" name="Normal" paraPrIDRef="0" charPrIDRef="0"/>`)
	for i, lvl := range levels {
		id := i + 1
		paraPr.WriteString(`<hh:paraPr id="`)
		paraPr.WriteString(itoa(id))
		paraPr.WriteString(`"><heading type="OUTLINE" level="`)
		paraPr.WriteString(itoa(lvl))
		paraPr.WriteString(`"/></hh:paraPr>`)
		styles.WriteString(`<hh:style id="`)
		styles.WriteString(itoa(id))
		styles.WriteString(`" type="PARA" name="Heading`)
		styles.WriteString(itoa(lvl))
		styles.WriteString(`" paraPrIDRef="`)
		styles.WriteString(itoa(id))
		styles.WriteString(`" charPrIDRef="0"/>`)
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">
  <hh:refList>
    <hh:borderFills itemCnt="0"/>
    <hh:charProperties itemCnt="1"><hh:charPr id="0" height="1000" textColor="#000000"/></hh:charProperties>
    <hh:paraProperties itemCnt="0">` + paraPr.String() + `</hh:paraProperties>
    <hh:numberings itemCnt="0"/>
  </hh:refList>
  <hh:styles itemCnt="0">` + styles.String() + `</hh:styles>
</hh:head>`
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestIntrospectOutlineContiguous(t *testing.T) {
	header := headerWithOutlineLevels([]int{0, 1, 2})
	m, err := Introspect([]byte(header), []byte(testSectionXML))
	if err != nil {
		t.Fatalf("Introspect returned error for contiguous outline: %v", err)
	}
	if len(m.OutlineStyleMap) != 3 {
		t.Fatalf("got %d outline entries, want 3", len(m.OutlineStyleMap))
	}
}

func TestIntrospectOutlineGap(t *testing.T) {
	header := headerWithOutlineLevels([]int{0, 1, 3})
	_, err := Introspect([]byte(header), []byte(testSectionXML))
	if err == nil {
		t.Fatal("expected a StyleError for a gapped outline, got nil")
	}
	if !strings.Contains(err.Error(), "gap") {
		t.Fatalf("error %q does not mention the outline gap", err.Error())
	}
}

func TestScanTablesCapturesNumberingHeadingCell(t *testing.T) {
	section := `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">
<hp:p><hp:run><hp:t>ignored</hp:t></hp:run></hp:p>
<hp:tbl>
  <hp:tc borderFillIDRef="5"><hp:p styleIDRef="1" paraPrIDRef="1"><hp:run charPrIDRef="1"><hp:t>Chapter</hp:t></hp:run></hp:p></hp:tc>
  <hp:tc borderFillIDRef="5"><hp:p styleIDRef="2" paraPrIDRef="2"><hp:run charPrIDRef="2"><hp:t>{{H1}}</hp:t></hp:run></hp:p></hp:tc>
</hp:tbl>
</hs:sec>`
	header := headerWithOutlineLevels([]int{0})
	m, err := Introspect([]byte(header), []byte(section))
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	ph, ok := m.Placeholders["H1"]
	if !ok {
		t.Fatal("expected a H1 placeholder to be discovered")
	}
	if ph.Mode != ModeTable {
		t.Fatalf("got mode %v, want ModeTable", ph.Mode)
	}
	if ph.NumberingText != "Chapter" {
		t.Fatalf("got numbering text %q, want %q", ph.NumberingText, "Chapter")
	}
}
