package linkedin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"linkedin-applier/internal/browser"
	"linkedin-applier/internal/forms"
	"linkedin-applier/internal/questions"
)

const (
	modalSelector    = "div.jobs-easy-apply-modal"
	groupingSelector = ".fb-dash-form-element, .jobs-easy-apply-form-section__grouping"
)

// modalPage adapts the current Easy Apply modal step to the form handler's
// page capability. Element handles are only valid for the current step; the
// handler re-reads fields after every advance.
type modalPage struct {
	surface *BrowserSurface
}

// fieldRef keeps the live element handles a detected question maps to.
type fieldRef struct {
	control browser.Element
	options []browser.Element
}

func (p *modalPage) Fields(ctx context.Context) ([]forms.Field, error) {
	modal, err := p.surface.driver.Find(ctx, modalSelector)
	if err != nil {
		return nil, fmt.Errorf("easy apply modal: %w", err)
	}

	groups, err := modal.FindAll(ctx, groupingSelector)
	if err != nil && !errors.Is(err, browser.ErrNotFound) {
		return nil, err
	}

	var fields []forms.Field
	for _, group := range groups {
		field, ok, err := p.detect(ctx, group)
		if err != nil {
			p.surface.logger.Debug("undetectable form group", zap.Error(err))
			continue
		}
		if ok {
			fields = append(fields, field)
		}
	}
	return fields, nil
}

// detect classifies one form grouping into a question. Groupings that hold
// no recognizable control (informational text, upload widgets) are skipped.
func (p *modalPage) detect(ctx context.Context, group browser.Element) (forms.Field, bool, error) {
	label := p.groupLabel(ctx, group)

	if sel, err := group.Find(ctx, "select"); err == nil {
		options, previous, err := p.selectOptions(ctx, sel)
		if err != nil {
			return forms.Field{}, false, err
		}
		q := &questions.Question{
			Label:          label,
			Kind:           questions.KindSelect,
			Options:        options,
			PreviousAnswer: previous,
		}
		return forms.Field{Question: q, Ref: &fieldRef{control: sel}}, true, nil
	}

	if radios, err := group.FindAll(ctx, "input[type=radio]"); err == nil && len(radios) > 0 {
		options, previous, err := p.radioOptions(ctx, group, radios)
		if err != nil {
			return forms.Field{}, false, err
		}
		q := &questions.Question{
			Label:          label,
			Kind:           questions.KindRadio,
			Options:        options,
			PreviousAnswer: previous,
		}
		return forms.Field{Question: q, Ref: &fieldRef{options: radios}}, true, nil
	}

	if box, err := group.Find(ctx, "input[type=checkbox]"); err == nil {
		previous := ""
		if checked, ok, _ := box.Attr(ctx, "checked"); ok && checked != "false" {
			previous = "Yes"
		}
		q := &questions.Question{
			Label:          label,
			Kind:           questions.KindCheckbox,
			PreviousAnswer: previous,
		}
		return forms.Field{Question: q, Ref: &fieldRef{control: box}}, true, nil
	}

	if area, err := group.Find(ctx, "textarea"); err == nil {
		previous, _, _ := area.Attr(ctx, "value")
		q := &questions.Question{
			Label:          label,
			Kind:           questions.KindTextarea,
			PreviousAnswer: previous,
		}
		return forms.Field{Question: q, Ref: &fieldRef{control: area}}, true, nil
	}

	if input, err := group.Find(ctx, "input[type=text], input:not([type])"); err == nil {
		previous, _, _ := input.Attr(ctx, "value")
		q := &questions.Question{
			Label:          label,
			Kind:           questions.KindText,
			PreviousAnswer: previous,
		}
		return forms.Field{Question: q, Ref: &fieldRef{control: input}}, true, nil
	}

	return forms.Field{}, false, nil
}

func (p *modalPage) groupLabel(ctx context.Context, group browser.Element) string {
	for _, selector := range []string{"label", "legend", ".fb-dash-form-element__label"} {
		if el, err := group.Find(ctx, selector); err == nil {
			if text, err := el.Text(ctx); err == nil && text != "" {
				return cleanText(text)
			}
		}
	}
	text, _ := group.Text(ctx)
	return cleanText(text)
}

func (p *modalPage) selectOptions(ctx context.Context, sel browser.Element) ([]questions.Option, string, error) {
	els, err := sel.FindAll(ctx, "option")
	if err != nil {
		return nil, "", err
	}

	var options []questions.Option
	previous := ""
	for _, el := range els {
		display, err := el.Text(ctx)
		if err != nil {
			return nil, "", err
		}
		value, _, _ := el.Attr(ctx, "value")
		options = append(options, questions.Option{Display: display, Value: value})

		if selected, ok, _ := el.Attr(ctx, "selected"); ok && selected != "false" && !isPlaceholder(display) {
			previous = display
		}
	}
	return options, previous, nil
}

func (p *modalPage) radioOptions(ctx context.Context, group browser.Element, radios []browser.Element) ([]questions.Option, string, error) {
	labels, err := group.FindAll(ctx, "label")
	if err != nil {
		return nil, "", err
	}

	var options []questions.Option
	previous := ""
	for i, radio := range radios {
		display := ""
		// Radio groups render one label per input after the legend.
		if i < len(labels) {
			display, _ = labels[i].Text(ctx)
		}
		value, _, _ := radio.Attr(ctx, "value")
		if display == "" {
			display = value
		}
		options = append(options, questions.Option{Display: cleanText(display), Value: value})

		if checked, ok, _ := radio.Attr(ctx, "checked"); ok && checked != "false" {
			previous = cleanText(display)
		}
	}
	return options, previous, nil
}

func (p *modalPage) WriteText(ctx context.Context, f forms.Field, value string) error {
	ref, err := refOf(f)
	if err != nil {
		return err
	}
	return ref.control.SetText(ctx, value)
}

func (p *modalPage) SelectOption(ctx context.Context, f forms.Field, optionIndex int) error {
	ref, err := refOf(f)
	if err != nil {
		return err
	}

	if f.Question.Kind == questions.KindRadio {
		if optionIndex < 0 || optionIndex >= len(ref.options) {
			return fmt.Errorf("radio option %d out of range", optionIndex)
		}
		return ref.options[optionIndex].Click(ctx)
	}

	if optionIndex < 0 || optionIndex >= len(f.Question.Options) {
		return fmt.Errorf("select option %d out of range", optionIndex)
	}
	// Typing the option text into a focused select picks the option.
	return ref.control.SetText(ctx, f.Question.Options[optionIndex].Display)
}

func (p *modalPage) Check(ctx context.Context, f forms.Field) error {
	ref, err := refOf(f)
	if err != nil {
		return err
	}
	return ref.control.Click(ctx)
}

func refOf(f forms.Field) (*fieldRef, error) {
	ref, ok := f.Ref.(*fieldRef)
	if !ok || ref == nil {
		return nil, errors.New("field has no live element reference")
	}
	return ref, nil
}

func isPlaceholder(display string) bool {
	return strings.EqualFold(strings.TrimSpace(display), "Select an option")
}
