// Package shrink drives the compression of a directory of images.
//
// A Worker takes one file through the decision flow: extension filter, hash
// comparison against the ledger, remote compression, in-place overwrite,
// re-measurement and ledger update. A Batcher runs workers over the file list
// in fixed-size batches and saves the ledger after every batch. Run ties both
// to the configuration, the ledger file and the directory scan.
//
// A compression counts as a success when it saves more than 10%, or when it
// saves less than 10% and the result is still larger than 5 KiB. A saving of
// exactly 10% never counts. Files that do not count are still overwritten and
// recorded.
package shrink
