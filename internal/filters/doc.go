// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects comparison rows by cell value.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// comma, override with CSVCMP_FILTER_DELIM). Every filter must match for a row
// to be kept.
//
// Operators, each negatable with a leading !:
//
//   - = : equal (numeric when both sides are numbers)
//   - ~ : equal ignoring case
//   - ^ : prefix
//   - @ : contains
//   - < : less than (numeric when both sides are numbers)
//   - > : greater than (numeric when both sides are numbers)
//   - / : regular expression
//
// Examples:
//
//   - "Difference=Yes" : only differing rows
//   - "city!^San" : cities not starting with San
//   - "amount>100" : numeric comparison
//   - "name/^[A-C]" : names starting with A, B or C
//
// A key names a record column or a title assigned through --columns. Rows
// that lack the column never match.
package filters
