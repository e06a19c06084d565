// Package mdreport assembles Markdown and Quarto documents for
// publication: it extracts pipe tables from the source, renders them
// as styled images sized to the document's column layout, and
// reinserts them with the layout directives the output format needs.
//
// Basic usage:
//
//	svc := mdreport.New()
//	defer svc.Close()
//
//	out, err := svc.Assemble(ctx, mdreport.Input{
//		Source:  markdown,
//		Columns: 2,
//	})
//
// The package follows a library-first design: the CLI in cmd/mdreport
// is a thin wrapper over this API.
package mdreport
