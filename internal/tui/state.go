package tui

// viewState is the render state of a page controller. The five states
// are mutually exclusive; fan-out to item rendering happens only in
// statePopulated.
type viewState int

const (
	stateMissingParam viewState = iota
	stateLoading
	stateError
	stateEmpty
	statePopulated
)

// selectState derives the controller state from its inputs.
// missingParam wins over everything: a page that requires a term and
// has none must not have issued a request at all.
func selectState(missingParam, loading bool, err error, empty bool) viewState {
	switch {
	case missingParam:
		return stateMissingParam
	case loading:
		return stateLoading
	case err != nil:
		return stateError
	case empty:
		return stateEmpty
	default:
		return statePopulated
	}
}

// errorText renders err with the generic fallback the product shows
// when no message is available.
func errorText(err error) string {
	if err == nil || err.Error() == "" {
		return "Something went wrong. Press 1 to return to the latest news."
	}
	return err.Error()
}
