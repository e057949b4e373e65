package emit

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectPageSetupNoOpWhenNoFragment(t *testing.T) {
	e, body := newTestEmitter(t)
	para := e.newParagraph(body, "", "")
	run := e.newRun(para, "")
	run.CreateElement("hp:t").SetText("hello")

	e.injectPageSetup(body)

	assert.Len(t, run.Child, 1)
}

func TestInjectPageSetupPrependsFragmentToFirstRun(t *testing.T) {
	e, body := newTestEmitter(t)
	para := e.newParagraph(body, "", "")
	run := e.newRun(para, "")
	run.CreateElement("hp:t").SetText("hello")

	secPr := etree.NewElement("secPr")
	e.model.PageSetupFragment = []*etree.Element{secPr}

	e.injectPageSetup(body)

	firstRun := body.FindElement(".//hp:run")
	require.NotNil(t, firstRun)
	require.Len(t, firstRun.Child, 2)
	elChild, ok := firstRun.Child[0].(*etree.Element)
	require.True(t, ok)
	assert.Equal(t, "secPr", elChild.Tag)
}
