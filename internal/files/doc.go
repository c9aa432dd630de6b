// Package files finds quote spreadsheets on disk.
//
// Discovery lists the files in a directory whose extension is one of the
// accepted quote formats, oldest first, so a folder of supplier quotes can
// be ingested in the order it was received.
//
//	discovery := files.NewDiscovery("/data", ".xlsx", ".xls", ".csv")
//	quotes, err := discovery.FindQuotes("inbox")
//	latest, ok := files.Latest(quotes)
package files
