package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTagArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "values after -t",
			in:   []string{"a.txt", "-t", "work", "draft"},
			want: []string{"a.txt", "--tags=work", "--tags=draft"},
		},
		{
			name: "long form",
			in:   []string{"--tags", "work", "draft", "a.txt"},
			want: []string{"--tags=work", "--tags=draft", "--tags=a.txt"},
		},
		{
			name: "next flag ends the list",
			in:   []string{"-t", "work", "-r", "a.txt"},
			want: []string{"--tags=work", "-r", "a.txt"},
		},
		{
			name: "repeated -t",
			in:   []string{"-t", "a", "-v", "-t", "b"},
			want: []string{"--tags=a", "-v", "--tags=b"},
		},
		{
			name: "cluster ending in t",
			in:   []string{"-rt", "work", "x"},
			want: []string{"-r", "--tags=work", "--tags=x"},
		},
		{
			name: "attached value",
			in:   []string{"-twork", "a.txt"},
			want: []string{"--tags=work", "a.txt"},
		},
		{
			name: "equals forms pass through",
			in:   []string{"--tags=work", "-t=draft", "a.txt"},
			want: []string{"--tags=work", "--tags=draft", "a.txt"},
		},
		{
			name: "empty list",
			in:   []string{"-t"},
			want: []string{},
		},
		{
			name: "double dash stops rewriting",
			in:   []string{"-t", "a", "--", "-t", "b"},
			want: []string{"--tags=a", "--", "-t", "b"},
		},
		{
			name: "no tags",
			in:   []string{"-l", "-r", "*.txt"},
			want: []string{"-l", "-r", "*.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandTagArgs(tt.in))
		})
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		argv0 string
		want  string
	}{
		{"/usr/local/bin/lstag", "lstag"},
		{"lsotag", "lsotag"},
		{"./tag", "tag"},
		{"rmtag.exe", "rmtag"},
		{"/opt/tagdb", "tagdb"},
		{"tagger", "tagger"},
		{"/tmp/go-build/tagger.test", "tagger"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, commandName(tt.argv0), "commandName(%q)", tt.argv0)
	}
}
