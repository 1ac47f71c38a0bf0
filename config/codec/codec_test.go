// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestGetDecoder_UnregisteredType(t *testing.T) {
	t.Parallel()

	decoder, err := GetDecoder(Type("unknown"))
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Nil(t, decoder)
	assert.Contains(t, err.Error(), "decoder not found for type: unknown")
}

func TestDetectType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Type
		wantErr bool
	}{
		{path: "log.yaml", want: TypeYAML},
		{path: "conf/LOG.YML", want: TypeYAML},
		{path: "log.json", want: TypeJSON},
		{path: "log.toml", want: TypeTOML},
		{path: "log.conf", want: TypeConf},
		{path: "log.ini", want: TypeConf},
		{path: ".env", want: TypeConf},
		{path: "log.xml", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := DetectType(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			decoder, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.NotNil(t, decoder)
		})
	}
}

// Every structured codec yields the same map for the same document, with
// lower-cased keys at every depth.
func TestStructuredCodecs_SameDocument(t *testing.T) {
	t.Parallel()

	docs := map[Type]string{
		TypeYAML: "Level: debug\nfile:\n  Filename: logs/app.log\n  size_config:\n    max_files: 3\n",
		TypeTOML: "Level = \"debug\"\n[file]\nFilename = \"logs/app.log\"\n[file.size_config]\nmax_files = 3\n",
		TypeJSON: `{"Level": "debug", "file": {"Filename": "logs/app.log", "size_config": {"max_files": 3}}}`,
	}

	for typ, doc := range docs {
		t.Run(string(typ), func(t *testing.T) {
			t.Parallel()

			decoder, err := GetDecoder(typ)
			require.NoError(t, err)

			var m map[string]any
			require.NoError(t, decoder.Decode([]byte(doc), &m))
			assert.Equal(t, "debug", m["level"])

			file, ok := m["file"].(map[string]any)
			require.True(t, ok, "file section is %T", m["file"])
			assert.Equal(t, "logs/app.log", file["filename"])

			size, ok := file["size_config"].(map[string]any)
			require.True(t, ok)
			assert.EqualValues(t, "3", toString(size["max_files"]))
		})
	}
}

func toString(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	default:
		b, _ := json.Marshal(n)
		return string(b)
	}
}

func TestCodecs_RejectWrongTarget(t *testing.T) {
	t.Parallel()

	for _, decoder := range []Decoder{JSONCodec{}, YAMLCodec{}, TOMLCodec{}, ConfCodec{}, EnvVarCodec{}} {
		var s []string
		err := decoder.Decode([]byte("a=b"), &s)
		require.Error(t, err, "%T", decoder)
		assert.Contains(t, err.Error(), "expected *map[string]any")
	}
}

func TestJSONCodec_Empty(t *testing.T) {
	t.Parallel()

	var m map[string]any
	require.NoError(t, JSONCodec{}.Decode([]byte("  "), &m))
	assert.Empty(t, m)
}

type ConfCodecTestSuite struct {
	suite.Suite
	codec ConfCodec
}

func TestConfCodecTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ConfCodecTestSuite))
}

func (s *ConfCodecTestSuite) TestDecode_Flat() {
	data := []byte(`
# logging
log_console = true
Level = debug
pattern = "[%l] %v"
filename = 'logs/app.log'
; another comment
export max_size = 5
`)
	var v map[string]any
	s.Require().NoError(s.codec.Decode(data, &v))
	s.Equal(map[string]any{
		"log_console": "true",
		"level":       "debug",
		"pattern":     "[%l] %v",
		"filename":    "logs/app.log",
		"max_size":    "5",
	}, v)
}

func (s *ConfCodecTestSuite) TestDecode_Sections() {
	data := []byte("level = info\n[File]\nFilename = app.log\n")
	var v map[string]any
	s.Require().NoError(s.codec.Decode(data, &v))
	s.Equal("info", v["level"])
	s.Equal(map[string]any{"filename": "app.log"}, v["file"])
}

func (s *ConfCodecTestSuite) TestDecode_CommentMarkersInValues() {
	var v map[string]any
	s.Require().NoError(s.codec.Decode([]byte("pattern = [%l] #%t; %v\ntime = %H:%M\n"), &v))
	s.Equal("[%l] #%t; %v", v["pattern"])
	s.Equal("%H:%M", v["time"])
}

func (s *ConfCodecTestSuite) TestDecode_ValueWithEquals() {
	var v map[string]any
	s.Require().NoError(s.codec.Decode([]byte("pattern = a=b"), &v))
	s.Equal("a=b", v["pattern"])
}

func (s *ConfCodecTestSuite) TestDecode_Malformed() {
	tests := map[string]string{
		"missing equals":   "level debug",
		"empty key":        " = debug",
		"unterminated hdr": "[file",
	}
	for name, data := range tests {
		var v map[string]any
		s.Error(s.codec.Decode([]byte(data), &v), name)
	}
}

type EnvVarCodecTestSuite struct {
	suite.Suite
	codec EnvVarCodec
}

func TestEnvVarCodecTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(EnvVarCodecTestSuite))
}

func (s *EnvVarCodecTestSuite) TestDecode_UnderscoresStayInKeys() {
	var v map[string]any
	s.Require().NoError(s.codec.Decode([]byte("MAX_SIZE=10MB\nROTATION_STRATEGY=size"), &v))
	s.Equal("10MB", v["max_size"])
	s.Equal("size", v["rotation_strategy"])
}

func (s *EnvVarCodecTestSuite) TestDecode_DoubleUnderscoreNests() {
	var v map[string]any
	s.Require().NoError(s.codec.Decode([]byte("FILE__FILENAME=app.log\nFILE__SIZE_CONFIG__MAX_FILES=3"), &v))
	file, ok := v["file"].(map[string]any)
	s.Require().True(ok)
	s.Equal("app.log", file["filename"])
	s.Equal(map[string]any{"max_files": "3"}, file["size_config"])
}

func (s *EnvVarCodecTestSuite) TestDecode_SkipsMalformed() {
	var v map[string]any
	s.Require().NoError(s.codec.Decode([]byte("NOEQUALS\n=value\n__=x\nLEVEL= warn "), &v))
	s.Equal(map[string]any{"level": "warn"}, v)
}
