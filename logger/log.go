//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
//
// Chatrouille is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Chatrouille is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package logger is a small channel-based singleton logger used by the
// host process and CLI. The codec package itself never logs; logging is
// strictly an ambient, host-side concern.
package logger

import (
	"fmt"
	"os"
	"time"
)

const (
	// CRITICAL errors
	CRITICAL = iota
	// SEVERE errors
	SEVERE
	// ERROR message
	ERROR
	// WARN for warning messages
	WARN
	// INFO is for informational messages
	INFO
	// DBG for debug messages
	DBG

	rotateCmd = iota // rotate log file
)

// logMsg is a single pending log record, handed to the background
// goroutine's formatter before being written out.
type logMsg struct {
	ts    time.Time
	level int
	text  string
}

type logger struct {
	msgChan   chan *logMsg // message to be logged
	cmdChan   chan int     // commands to be executed
	logfile   *os.File     // current log file (can be stdout/stderr)
	started   time.Time    // start time of current log file
	level     int          // current log level
	formatter Formatter    // renders a logMsg to its output line
}

var logInst *logger // singleton logger instance

func init() {
	logInst = &logger{
		msgChan:   make(chan *logMsg),
		cmdChan:   make(chan int),
		logfile:   os.Stdout,
		started:   time.Now(),
		level:     DBG,
		formatter: SimpleFormat,
	}

	go func() {
		for {
			select {
			case msg := <-logInst.msgChan:
				logInst.logfile.WriteString(logInst.formatter(msg))
			case cmd := <-logInst.cmdChan:
				switch cmd {
				case rotateCmd:
					if logInst.logfile != os.Stdout {
						fname := logInst.logfile.Name()
						logInst.logfile.Close()
						ts := logInst.started.Format(time.RFC3339)
						os.Rename(fname, fname+"."+ts)
						var err error
						if logInst.logfile, err = os.Create(fname); err != nil {
							logInst.logfile = os.Stdout
						}
						logInst.started = time.Now()
					} else {
						Println(WARN, "[log] log rotation for 'stdout' not applicable.")
					}
				}
			}
		}
	}()
}

// Println logs line at the given level.
func Println(level int, line string) {
	if level <= logInst.level {
		logInst.msgChan <- &logMsg{ts: time.Now(), level: level, text: line}
	}
}

// Printf logs a formatted message at the given level.
func Printf(level int, format string, v ...interface{}) {
	if level <= logInst.level {
		logInst.msgChan <- &logMsg{ts: time.Now(), level: level, text: fmt.Sprintf(format, v...)}
	}
}

// SetFormatter swaps the function used to render a log line. SimpleFormat
// is the default; ColorFormat is the ANSI-colored alternative for an
// interactive terminal.
func SetFormatter(f Formatter) {
	logInst.formatter = f
}

// LogToFile starts logging messages to file.
func LogToFile(filename string) bool {
	if logInst.logfile == nil {
		logInst.logfile = os.Stdout
	}
	Println(INFO, "[log] file-based logging to '"+filename+"'")
	if f, err := os.Create(filename); err == nil {
		logInst.logfile = f
		logInst.started = time.Now()
		return true
	}
	Println(ERROR, "[log] can't enable file-based logging!")
	return false
}

// Rotate log file.
func Rotate() {
	logInst.cmdChan <- rotateCmd
}

// GetLogLevel returns a numeric log level.
func GetLogLevel() int {
	return logInst.level
}

// GetLogLevelName returns the current loglevel in human-readable form.
func GetLogLevelName() string {
	switch logInst.level {
	case CRITICAL:
		return "CRITICAL"
	case SEVERE:
		return "SEVERE"
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DBG:
		return "DBG"
	}
	return "UNKNOWN_LOGLEVEL"
}

// SetLogLevel sets the logging level from a numeric value.
func SetLogLevel(lvl int) {
	if lvl < CRITICAL || lvl > DBG {
		Printf(WARN, "[logger] Unknown loglevel '%d' requested -- ignored.\n", lvl)
		return
	}
	logInst.level = lvl
}

// SetLogLevelFromName sets the logging level from its symbolic name.
func SetLogLevelFromName(name string) {
	switch name {
	case "CRITICAL":
		logInst.level = CRITICAL
	case "SEVERE":
		logInst.level = SEVERE
	case "ERROR":
		logInst.level = ERROR
	case "WARN":
		logInst.level = WARN
	case "INFO":
		logInst.level = INFO
	case "DBG":
		logInst.level = DBG
	default:
		Println(WARN, "[logger] Unknown loglevel '"+name+"' requested.")
	}
}

// getTag returns the loglevel tag used as a message prefix.
func getTag(level int) string {
	switch level {
	case CRITICAL:
		return "{C}"
	case SEVERE:
		return "{S}"
	case ERROR:
		return "{E}"
	case WARN:
		return "{W}"
	case INFO:
		return "{I}"
	case DBG:
		return "{D}"
	}
	return "{?}"
}
