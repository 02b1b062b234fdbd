// Package stitch is the Composition Root for the Stitch static-site assembler.
//
// Stitch merges page-specific content fragments with three shared partials
// (head, header and footer) into complete HTML pages, copies every other
// file verbatim, and only rewrites outputs that are older than their inputs.
//
// Features:
//
//   - **Title Resolution**: the first <body id="..."> or the file name becomes the page title.
//   - **Incremental Builds**: modification times decide what gets rewritten.
//   - **Dry Run**: every mutation is logged instead of performed.
//   - **Live Reload**: pages poll a marker file and reload when a build changes it.
//   - **Watch Mode**: filesystem notifications trigger rebuilds.
//
// Usage:
//
//	site, err := stitch.New(
//		stitch.WithInputDir("content"),
//		stitch.WithOutputDir("public"),
//		stitch.WithLogger(logger),
//	)
//
//	report, err := site.Build(ctx)
package stitch
