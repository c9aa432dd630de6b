// Package dataprocessing turns uploaded spreadsheets into cleaned tables.
//
// # Reading
//
// A Chain tries SheetReader strategies in priority order and keeps the
// first that yields rows:
//
//	xlsx       excelize, first sheet, raw cell values
//	xls        shakinm/xlsReader through a scratch file
//	csv        delimited text, delimiter sniffed from the header line
//
// The winning strategy is reported as the read method.
//
// # Cleaning
//
// Clean drops blank rows and columns, caps the row count and normalizes
// headers. Rows keep their source position so validation errors can
// point at the original spreadsheet line.
package dataprocessing
