package i18n

// Message IDs.
const (
	HelpBrowse            = "HelpBrowse"
	HelpEdit              = "HelpEdit"
	HelpPicker            = "HelpPicker"
	SourceTitle           = "SourceTitle"
	TranslationTitle      = "TranslationTitle"
	FuzzyLabel            = "FuzzyLabel"
	OnlyFuzzyLabel        = "OnlyFuzzyLabel"
	PickerTitle           = "PickerTitle"
	PickerPlaceholder     = "PickerPlaceholder"
	EmptyCatalog          = "EmptyCatalog"
	NoCatalog             = "NoCatalog"
	CatalogStats          = "CatalogStats"
	StatusOpened          = "StatusOpened"
	StatusSaved           = "StatusSaved"
	StatusDiscarded       = "StatusDiscarded"
	StatusFuzzyOn         = "StatusFuzzyOn"
	StatusFuzzyOff        = "StatusFuzzyOff"
	StatusTranslatingOne  = "StatusTranslatingOne"
	StatusTranslatingAll  = "StatusTranslatingAll"
	StatusTranslatedOne   = "StatusTranslatedOne"
	StatusTranslatedAll   = "StatusTranslatedAll"
	StatusBatchIncomplete = "StatusBatchIncomplete"
	StatusCopied          = "StatusCopied"
	StatusBusy            = "StatusBusy"
	StatusTheme           = "StatusTheme"
	StatusError           = "StatusError"
	StatusOnlyFuzzyOn     = "StatusOnlyFuzzyOn"
	StatusOnlyFuzzyOff    = "StatusOnlyFuzzyOff"
)
