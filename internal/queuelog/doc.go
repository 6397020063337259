// Package queuelog appends download URIs to the text file an external
// downloader consumes, one URI per line.
//
// Each append holds an exclusive advisory lock on "<path>.lock" and writes
// the whole line with a single O_APPEND write, so concurrent writers in
// other processes never interleave partial lines.
package queuelog
