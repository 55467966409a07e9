package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Stdio struct {
	in   *bufio.Reader
	out  io.Writer
	inFd int
}

// NewStdio работает с os.Stdin и os.Stdout
func NewStdio() IO {
	return &Stdio{
		in:   bufio.NewReader(os.Stdin),
		out:  os.Stdout,
		inFd: int(os.Stdin.Fd()),
	}
}

// NewStdioWith работает с произвольными потоками; пароль читается как обычная строка
func NewStdioWith(in io.Reader, out io.Writer) IO {
	return &Stdio{
		in:   bufio.NewReader(in),
		out:  out,
		inFd: -1,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

// ReadPassword не отображает ввод, если stdin терминал
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if s.inFd < 0 || !term.IsTerminal(s.inFd) {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(s.inFd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
