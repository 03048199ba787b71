// Package files locates the dataset to analyse.
//
// The input may name a workbook or CSV file directly, or a directory, in which
// case the most recently modified dataset in it is used:
//
//	d := files.NewDiscovery(wd, logger)
//	path, err := d.ResolveDataset("data")
package files
