// Package convention names the class-name conventions of the third-party
// widget markup the filler recognizes. The defaults follow Element Plus;
// every name can be overridden from the configuration file.
package convention

// Conventions holds the class names and id suffixes used to discover and
// drive widgets.
type Conventions struct {
	// FormItem wraps one labelled form row.
	FormItem string `yaml:"formItem,omitempty" json:"formItem,omitempty"`
	// FormItemLabel is the label element inside a FormItem.
	FormItemLabel string `yaml:"formItemLabel,omitempty" json:"formItemLabel,omitempty"`

	// Select is the wrapper of single and multi-select widgets.
	Select string `yaml:"select,omitempty" json:"select,omitempty"`
	// SelectMultiple is the modifier class of multi-select wrappers.
	SelectMultiple string `yaml:"selectMultiple,omitempty" json:"selectMultiple,omitempty"`
	// SelectTrigger is the element that opens the dropdown when clicked.
	SelectTrigger string `yaml:"selectTrigger,omitempty" json:"selectTrigger,omitempty"`
	// SelectPlaceholder shows either the placeholder or the selected label.
	SelectPlaceholder string `yaml:"selectPlaceholder,omitempty" json:"selectPlaceholder,omitempty"`
	// PlaceholderShown marks a SelectPlaceholder that shows the placeholder.
	PlaceholderShown string `yaml:"placeholderShown,omitempty" json:"placeholderShown,omitempty"`
	// SelectedTag is one chip of a multi-select selection.
	SelectedTag string `yaml:"selectedTag,omitempty" json:"selectedTag,omitempty"`
	// Dropdown is the options panel rendered after the trigger is clicked.
	Dropdown string `yaml:"dropdown,omitempty" json:"dropdown,omitempty"`
	// DropdownItem is one option inside a Dropdown.
	DropdownItem string `yaml:"dropdownItem,omitempty" json:"dropdownItem,omitempty"`
	// DropdownIDSuffix is appended to the widget id to form the panel id.
	DropdownIDSuffix string `yaml:"dropdownIdSuffix,omitempty" json:"dropdownIdSuffix,omitempty"`
	// OpenState marks a widget whose panel is open.
	OpenState string `yaml:"openState,omitempty" json:"openState,omitempty"`
	// DisabledState marks a disabled widget or option.
	DisabledState string `yaml:"disabledState,omitempty" json:"disabledState,omitempty"`

	// NumberInput is the wrapper of numeric-input widgets.
	NumberInput string `yaml:"numberInput,omitempty" json:"numberInput,omitempty"`
	// InnerInput is the native input inside a widget.
	InnerInput string `yaml:"innerInput,omitempty" json:"innerInput,omitempty"`

	// DateEditor is the wrapper of date-picker widgets.
	DateEditor string `yaml:"dateEditor,omitempty" json:"dateEditor,omitempty"`
	// RangeEditor marks a date editor in range mode.
	RangeEditor string `yaml:"rangeEditor,omitempty" json:"rangeEditor,omitempty"`
	// DateTrigger opens the calendar panel.
	DateTrigger string `yaml:"dateTrigger,omitempty" json:"dateTrigger,omitempty"`
	// PickerPanel is the calendar panel.
	PickerPanel string `yaml:"pickerPanel,omitempty" json:"pickerPanel,omitempty"`
	// PickerHeaderLabel holds the displayed year and month.
	PickerHeaderLabel string `yaml:"pickerHeaderLabel,omitempty" json:"pickerHeaderLabel,omitempty"`
	// PickerPrev and PickerNext navigate one month.
	PickerPrev string `yaml:"pickerPrev,omitempty" json:"pickerPrev,omitempty"`
	PickerNext string `yaml:"pickerNext,omitempty" json:"pickerNext,omitempty"`
	// PickerYearSelect and PickerMonthSelect are optional native selects.
	PickerYearSelect  string `yaml:"pickerYearSelect,omitempty" json:"pickerYearSelect,omitempty"`
	PickerMonthSelect string `yaml:"pickerMonthSelect,omitempty" json:"pickerMonthSelect,omitempty"`
	// DateTable contains the day cells.
	DateTable string `yaml:"dateTable,omitempty" json:"dateTable,omitempty"`
	// DayAvailable marks a selectable day cell of the displayed month.
	DayAvailable string `yaml:"dayAvailable,omitempty" json:"dayAvailable,omitempty"`
	// DayOutside marks day cells of the previous or next month.
	DayOutside []string `yaml:"dayOutside,omitempty" json:"dayOutside,omitempty"`
}

// Default returns the Element Plus conventions.
func Default() Conventions {
	return Conventions{
		FormItem:          "el-form-item",
		FormItemLabel:     "el-form-item__label",
		Select:            "el-select",
		SelectMultiple:    "el-select--multiple",
		SelectTrigger:     "el-select__wrapper",
		SelectPlaceholder: "el-select__placeholder",
		PlaceholderShown:  "is-transparent",
		SelectedTag:       "el-tag",
		Dropdown:          "el-select-dropdown",
		DropdownItem:      "el-select-dropdown__item",
		DropdownIDSuffix:  "-dropdown",
		OpenState:         "is-focused",
		DisabledState:     "is-disabled",
		NumberInput:       "el-input-number",
		InnerInput:        "el-input__inner",
		DateEditor:        "el-date-editor",
		RangeEditor:       "el-range-editor",
		DateTrigger:       "el-input__prefix",
		PickerPanel:       "el-picker-panel",
		PickerHeaderLabel: "el-date-picker__header-label",
		PickerPrev:        "el-date-picker__prev-btn",
		PickerNext:        "el-date-picker__next-btn",
		PickerYearSelect:  "el-date-picker__year-select",
		PickerMonthSelect: "el-date-picker__month-select",
		DateTable:         "el-date-table",
		DayAvailable:      "available",
		DayOutside:        []string{"prev-month", "next-month"},
	}
}

// Merge returns c with every empty field taken from base.
func (c Conventions) Merge(base Conventions) Conventions {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.FormItem, base.FormItem)
	fill(&c.FormItemLabel, base.FormItemLabel)
	fill(&c.Select, base.Select)
	fill(&c.SelectMultiple, base.SelectMultiple)
	fill(&c.SelectTrigger, base.SelectTrigger)
	fill(&c.SelectPlaceholder, base.SelectPlaceholder)
	fill(&c.PlaceholderShown, base.PlaceholderShown)
	fill(&c.SelectedTag, base.SelectedTag)
	fill(&c.Dropdown, base.Dropdown)
	fill(&c.DropdownItem, base.DropdownItem)
	fill(&c.DropdownIDSuffix, base.DropdownIDSuffix)
	fill(&c.OpenState, base.OpenState)
	fill(&c.DisabledState, base.DisabledState)
	fill(&c.NumberInput, base.NumberInput)
	fill(&c.InnerInput, base.InnerInput)
	fill(&c.DateEditor, base.DateEditor)
	fill(&c.RangeEditor, base.RangeEditor)
	fill(&c.DateTrigger, base.DateTrigger)
	fill(&c.PickerPanel, base.PickerPanel)
	fill(&c.PickerHeaderLabel, base.PickerHeaderLabel)
	fill(&c.PickerPrev, base.PickerPrev)
	fill(&c.PickerNext, base.PickerNext)
	fill(&c.PickerYearSelect, base.PickerYearSelect)
	fill(&c.PickerMonthSelect, base.PickerMonthSelect)
	fill(&c.DateTable, base.DateTable)
	fill(&c.DayAvailable, base.DayAvailable)
	if len(c.DayOutside) == 0 {
		c.DayOutside = base.DayOutside
	}
	return c
}
