//go:build windows

package proc

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

type procHandle struct {
	handle windows.Handle
}

// spawn creates the child through the single-call creation API. The command
// line travels as one quote-if-needed string and the environment, if any, as
// a UTF-16 double-NUL-terminated block.
func (b *Builder) spawn() (*Child, error) {
	startupInfo := new(windows.StartupInfo)
	startupInfo.Cb = uint32(unsafe.Sizeof(*startupInfo))

	inheritHandles := false
	if b.stdoutPath != nil {
		outputFile, err := createInheritableFile(*b.stdoutPath)
		if err != nil {
			return nil, &SpawnError{Kind: KindRedirectFailed, Path: *b.stdoutPath, Err: err}
		}
		// Ownership passes to the child at creation; the creator's copy is
		// closed on every path out of this function.
		defer windows.CloseHandle(outputFile)
		inheritHandles = true
		startupInfo.Flags |= windows.STARTF_USESTDHANDLES
		startupInfo.StdOutput = outputFile
	}

	commandLine, err := windows.UTF16PtrFromString(b.commandLine.String())
	if err != nil {
		return nil, &SpawnError{Kind: KindGeneric, Path: b.commandLine.Executable(), Err: err}
	}

	var creationFlags uint32
	var envBlock *uint16
	if b.environment != nil {
		block := utf16EnvBlock(b.environment.Strings())
		envBlock = &block[0]
		creationFlags |= windows.CREATE_UNICODE_ENVIRONMENT
	}

	var workdir *uint16
	if b.workdir != nil {
		workdir, err = windows.UTF16PtrFromString(*b.workdir)
		if err != nil {
			return nil, &SpawnError{Kind: KindGeneric, Path: *b.workdir, Err: err}
		}
	}

	processInfo := new(windows.ProcessInformation)
	err = windows.CreateProcess(nil, commandLine, nil, nil, inheritHandles, creationFlags, envBlock, workdir, startupInfo, processInfo)
	if err != nil {
		return nil, &SpawnError{Kind: KindSpawnFailed, Path: b.commandLine.Executable(), Err: err}
	}

	// The thread handle is never needed.
	windows.CloseHandle(processInfo.Thread)
	return &Child{handle: procHandle{handle: processInfo.Process}, state: Running}, nil
}

// wait blocks on the process handle and retrieves the exit status. The
// handle is released on every path out, error branches included.
func (h procHandle) wait() (int, error) {
	defer windows.CloseHandle(h.handle)

	event, err := windows.WaitForSingleObject(h.handle, windows.INFINITE)
	if err != nil {
		return 0, fmt.Errorf("wait for process: %w", err)
	}
	if event != windows.WAIT_OBJECT_0 {
		return 0, fmt.Errorf("wait for process: unexpected wait result %#x", event)
	}
	var code uint32
	if err := windows.GetExitCodeProcess(h.handle, &code); err != nil {
		return 0, fmt.Errorf("query exit code: %w", err)
	}
	return int(code), nil
}

// createInheritableFile opens path for appending through a handle explicitly
// marked inheritable so the child can adopt it as standard output.
func createInheritableFile(path string) (windows.Handle, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	securityAttributes := &windows.SecurityAttributes{InheritHandle: 1}
	securityAttributes.Length = uint32(unsafe.Sizeof(*securityAttributes))
	return windows.CreateFile(
		pathPtr,
		windows.FILE_APPEND_DATA,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		securityAttributes,
		windows.OPEN_ALWAYS,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
}

// utf16EnvBlock renders NAME=VALUE entries as a UTF-16 block with a NUL after
// each entry and a second NUL closing the block.
func utf16EnvBlock(entries []string) []uint16 {
	if len(entries) == 0 {
		return []uint16{0, 0}
	}
	var block []uint16
	for _, entry := range entries {
		block = append(block, utf16.Encode([]rune(entry))...)
		block = append(block, 0)
	}
	return append(block, 0)
}
