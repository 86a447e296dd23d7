package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionList     = "list"
	actionCard     = "card"
	actionSearch   = "search"
	actionCategory = "cat"
	actionForm     = "form"
	actionQuiz     = "quiz"
	actionStats    = "stats"
	actionTop      = "top"
	actionReset    = "reset"
	actionNoop     = "noop"
)

// List sub-actions.
const (
	listPage       = "page"
	listAll        = "all"
	listCategories = "cats"
)

// Card sub-actions.
const (
	cardToggle = "toggle"
	cardDelete = "del"
)

// Form sub-actions.
const (
	formOpen       = "open"
	formDifficulty = "diff"
	formCategory   = "cat"
	formEdit       = "edit"
	formSubmit     = "submit"
	formRetry      = "retry"
	formCancel     = "cancel"

	formFieldQuestion = "q"
	formFieldAnswer   = "a"
)

// Quiz sub-actions.
const (
	quizMenu     = "menu"
	quizCategory = "cat"
	quizNext     = "next"
	quizStop     = "stop"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildListPageCallback(page int) string {
	return callbackData{
		Action: actionList,
		Params: []string{listPage, strconv.Itoa(page)},
	}.encode()
}

func buildListAllCallback() string {
	return callbackData{Action: actionList, Params: []string{listAll}}.encode()
}

func buildListCategoriesCallback() string {
	return callbackData{Action: actionList, Params: []string{listCategories}}.encode()
}

func buildCardToggleCallback(questionID int) string {
	return callbackData{
		Action: actionCard,
		Params: []string{cardToggle, strconv.Itoa(questionID)},
	}.encode()
}

func buildCardDeleteCallback(questionID int) string {
	return callbackData{
		Action: actionCard,
		Params: []string{cardDelete, strconv.Itoa(questionID)},
	}.encode()
}

func buildSearchCallback() string {
	return actionSearch
}

// buildCategoryCallback builds callback data for filtering the list by category.
func buildCategoryCallback(categoryID int) string {
	return callbackData{
		Action: actionCategory,
		Params: []string{strconv.Itoa(categoryID)},
	}.encode()
}

// buildFormCallback builds callback data for form actions.
func buildFormCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionForm,
		Params: params,
	}.encode()
}

func buildFormDifficultyCallback(d int) string {
	return buildFormCallback(formDifficulty, strconv.Itoa(d))
}

func buildFormCategoryCallback(categoryID int) string {
	return buildFormCallback(formCategory, strconv.Itoa(categoryID))
}

// buildQuizCallback builds callback data for quiz actions.
func buildQuizCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionQuiz,
		Params: params,
	}.encode()
}

func buildQuizCategoryCallback(categoryID int) string {
	return buildQuizCallback(quizCategory, strconv.Itoa(categoryID))
}

func buildStatsCallback() string {
	return actionStats
}

func buildTopCallback() string {
	return actionTop
}

func buildNoopCallback() string {
	return actionNoop
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
