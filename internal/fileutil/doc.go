// Package fileutil discovers candidate source files under root directories.
//
// # Main Components
//
// ScanOptions configures a scan:
//   - Extensions: file name suffixes to include (case-sensitive, e.g. ".py")
//   - ExcludeDirs: directory names to skip (e.g. "__pycache__")
//   - SkipHidden: skip directories starting with "."
//
// ScanResult holds the outcome:
//   - Files: matched paths, prefixed with the root as given (sorted)
//   - Errors: non-fatal errors encountered below the root
//
// ScanDirectory scans a single root; ScanRoots scans several roots in order
// and concatenates their files.
//
// # Usage
//
//	result, err := fileutil.ScanRoots([]string{"pepnet", "test"}, fileutil.ScanOptions{
//	    Extensions: []string{".py"},
//	})
//	if err != nil {
//	    var rootErr *fileutil.RootError
//	    if errors.As(err, &rootErr) {
//	        log.Fatalf("root %s unusable: %v", rootErr.Root, rootErr.Err)
//	    }
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// # Error Tolerance
//
// A root that is missing, is not a directory, or cannot be listed is fatal
// and reported as a *RootError. Permission problems on subdirectories are
// collected in ScanResult.Errors and the walk continues, the way find(1)
// reports and skips them.
//
// # Ordering
//
// Within a root, files are sorted lexicographically. Across roots, the
// configured root order is preserved. Paths are not made absolute, so
// "pepnet/x.py" stays "pepnet/x.py".
package fileutil
