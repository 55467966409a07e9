// Package iocli отделяет команды CLI от терминала.
package iocli

// IO то, что команды CLI знают о терминале.
// Stdio работает с os.Stdin/os.Stdout, тесты подставляют буфер.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// ReadInput печатает prompt и читает строку, пробелы по краям отброшены
	ReadInput(prompt string) (string, error)
	// ReadPassword читает строку без эха, если stdin это терминал
	ReadPassword(prompt string) (string, error)
	// Write позволяет передать IO как io.Writer, например в PrintUsage
	Write(p []byte) (n int, err error)
}
