// Package table renders configuration-driven data tables.
//
// A Configuration lists columns (field path, header, type, optional
// template), row actions, global filter fields and presentation flags. The
// Renderer is a pure function of rows, configuration, caption and local
// State: equal inputs produce equal Trees, which hosts such as the terminal
// UI draw however they like.
//
// Field paths are dotted ("driver.name") and resolve segment by segment; a
// missing or null hop yields no value rather than an error. Cell values are
// formatted per column type: dates as locale short dates, numbers with digit
// grouping and at most three fractional digits, booleans as check or cross
// icons. Template columns dispatch to named CellRenderers; the builtin
// "deviceIcon" and "statusDropdown" templates cover the fleet views, and an
// unknown template name falls back to the plain value.
//
// Table wraps the renderer with the interactive state. Sorting only records
// the indicator and emits a SortEvent; ordering the data is left to the
// parent, typically via SortRows. Selecting a status emits a StatusChange
// carrying the untouched row so the parent can apply the change and roll it
// back if persisting fails.
package table
