package cli

import (
	"fmt"
	"io"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/branding"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// printTemplateHelp is appended to --help.
func printTemplateHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Only %s is required.\n", style.Name("<project-directory>"))
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    A custom %s can be one of:\n", style.Command("--template"))
	fmt.Fprintf(w, "      - a custom template published on npm: %s\n", style.Name(branding.ExampleTemplate()))
	fmt.Fprintf(w, "      - a local path relative to the current working directory: %s\n", style.Name("file:../my-custom-template"))
	fmt.Fprintf(w, "      - a .tgz archive: %s\n", style.Name("https://mysite.com/my-custom-template-0.8.2.tgz"))
	fmt.Fprintf(w, "      - a .tar.gz archive: %s\n", style.Name("https://mysite.com/my-custom-template-0.8.2.tar.gz"))
	fmt.Fprintln(w)
}

// printMissingArgument explains how to pass the project directory.
func printMissingArgument(errOut, out io.Writer) {
	name := branding.CLIName()
	fmt.Fprintln(errOut, "Please specify the project directory:")
	fmt.Fprintf(out, "  %s %s\n", style.Command(name), style.Name("<project-directory>"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "For example:")
	fmt.Fprintf(out, "  %s %s\n", style.Command(name), style.Name("my-app"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Run %s to see all options.\n", style.Command(name+" --help"))
}
