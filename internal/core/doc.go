// Package core provides the CSV ingestion and point transformation logic.
//
// This package is the heart of the application, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Pipeline
//
// A file travels through four stages, each a pure function:
//
//  1. [ValidateFile] checks name, size and declared media type
//  2. [Parse] decodes the text, applies dynamic typing and infers a
//     [ColumnInfo] for every column
//  3. The user picks an [AxisMapping] (see [SuggestMapping] and [ValidateMapping])
//  4. [ToNormalizedPoints] produces [Point3D] values rescaled into a target
//     range plus the source-unit [Ranges] for axis ticks
//
// [Centroid], [Bounds], [FilterByRange] and [BuildColorMap] post-process
// point sets; [SummaryStatistics] summarizes a numeric column.
//
// # Cell Values
//
// Every cell is a [Scalar] tagged Null, Number, Text or Bool. The tag is the
// ground truth for a cell; [ColumnInfo.Type] is only a summary of the column.
//
// # Sessions
//
// [Service] is the only stateful type. It owns one [Session] per user
// (dataset, mapping and viewer settings), limits concurrent parses with a
// [ParseLimiter] and expires idle sessions from [Service.StartSessionSweeper].
// Every derived result is recomputed from a session snapshot.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE008: File errors (size, type, empty, malformed, unreadable)
//   - MAP001-MAP004: Axis mapping errors
//   - SES001-SES002: Session errors
//   - UPL001-UPL003: Busy, cancelled and timed-out parses
//   - VAL001-VAL003: Input validation errors
package core
