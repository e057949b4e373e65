package emit

import "github.com/beevik/etree"

// injectPageSetup implements §4.3.8: after all body XML is assembled,
// insert the template's captured secPr/ctrl fragment as the first
// children of the first emitted run, so it renders immediately after that
// run's opening tag.
func (e *Emitter) injectPageSetup(body *etree.Element) {
	if len(e.model.PageSetupFragment) == 0 {
		return
	}
	run := body.FindElement(".//hp:run")
	if run == nil {
		return
	}
	prepend := make([]etree.Token, 0, len(e.model.PageSetupFragment)+len(run.Child))
	for _, frag := range e.model.PageSetupFragment {
		prepend = append(prepend, frag.Copy())
	}
	prepend = append(prepend, run.Child...)
	run.Child = prepend
}
