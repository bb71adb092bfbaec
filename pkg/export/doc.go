// Package export renders page trees to static HTML files.
//
// Pages are stored through a Store: DiskStore writes below a directory,
// S3Store uploads to a bucket. Every page key k is stored as k + ".html",
// so "index" becomes index.html and "blog/intro" becomes blog/intro.html.
//
//	store, _ := export.NewDiskStore("dist")
//	keys, err := export.Export(ctx, store, map[string]func() *tree.Root{
//	    "index": pages.Index,
//	}, export.Options{Minify: true, Doctype: true})
package export
