// Package binary provisions the precompiled binaries a package declares.
//
// # Pipeline
//
// Every declared binary becomes one task that runs independently of the
// others:
//
//  1. Build the download URL from the pattern (see urltemplate).
//  2. Fetch the bytes, from disk for file: URLs or with a single GET.
//  3. Write the bytes to the declared destination.
//
// A task that fails at any stage records its error and stops; siblings keep
// going. Once all tasks have finished, the Report lists each outcome in
// submission order and Report.Err folds the failures into one
// *ProvisionError.
//
// # Usage
//
//	p := binary.NewProvisioner(binary.Config{Logger: log})
//	report := p.Provision(ctx, binary.Request{
//	    Manifest: m,
//	    Pattern:  "https://example.com/v{version}/{bin}-{triple}",
//	    Triple:   "x86_64-unknown-linux-gnu",
//	    Dir:      cwd,
//	})
//	if err := report.Err(); err != nil {
//	    return err
//	}
//
// # Limits
//
// Response bodies and local files are read fully into memory before being
// written, so binaries are expected to be of modest size. Nothing is cached,
// retried, or verified, and destination files are written in place rather
// than renamed into position.
package binary
