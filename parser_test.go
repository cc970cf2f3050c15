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

package pathtrie

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ParserTestSuite struct {
	suite.Suite
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func (s *ParserTestSuite) TestSimpleStatic() {
	tmpl, err := parseTemplate("/users", '/')
	s.Require().NoError(err)
	s.Require().Len(tmpl.expansions, 1)
	s.Equal("/users", tmpl.expansions[0].expanded)
	s.Require().Len(tmpl.expansions[0].parts, 1)
	s.Equal(partStatic, tmpl.expansions[0].parts[0].kind)
}

func (s *ParserTestSuite) TestDynamicParam() {
	tmpl, err := parseTemplate("/users/{id}", '/')
	s.Require().NoError(err)
	s.Require().Len(tmpl.expansions, 1)
	parts := tmpl.expansions[0].parts
	s.Require().Len(parts, 2)
	s.Equal(partDynamic, parts[1].kind)
	s.Equal("id", parts[1].name)
	s.Empty(parts[1].constraint)
}

func (s *ParserTestSuite) TestDynamicParamWithConstraint() {
	tmpl, err := parseTemplate("/repos/{id:hex32}", '/')
	s.Require().NoError(err)
	parts := tmpl.expansions[0].parts
	s.Require().Len(parts, 2)
	s.Equal("id", parts[1].name)
	s.Equal("hex32", parts[1].constraint)
}

func (s *ParserTestSuite) TestWildcard() {
	tmpl, err := parseTemplate("/{*path}", '/')
	s.Require().NoError(err)
	parts := tmpl.expansions[0].parts
	s.Require().Len(parts, 1)
	s.Equal(partWildcard, parts[0].kind)
	s.Equal("path", parts[0].name)
}

func (s *ParserTestSuite) TestOptionalGroupExpandsToTwo() {
	tmpl, err := parseTemplate("(/{*name})/abc", '/')
	s.Require().NoError(err)
	s.Require().Len(tmpl.expansions, 2)

	var expanded []string
	for _, e := range tmpl.expansions {
		expanded = append(expanded, e.expanded)
	}
	s.Contains(expanded, "/abc")
	s.Contains(expanded, "/{*name}/abc")
}

func (s *ParserTestSuite) TestTwoOptionalGroupsExpandToFour() {
	tmpl, err := parseTemplate("(a)(b)/x", '/')
	s.Require().NoError(err)
	s.Len(tmpl.expansions, 4)
}

func (s *ParserTestSuite) TestMergeStaticsAcrossGroupBoundary() {
	tmpl, err := parseTemplate("/a(b)c", '/')
	s.Require().NoError(err)

	var sawMergedABC bool
	for _, e := range tmpl.expansions {
		if e.expanded == "/abc" {
			sawMergedABC = true
			s.Len(e.parts, 1, "adjacent statics across a kept group must merge into one part")
		}
	}
	s.True(sawMergedABC)
}

func (s *ParserTestSuite) TestEscapedSpecialCharacters() {
	tmpl, err := parseTemplate(`/a\{b\}`, '/')
	s.Require().NoError(err)
	parts := tmpl.expansions[0].parts
	s.Require().Len(parts, 1)
	s.Equal(partStatic, parts[0].kind)
	s.Equal("/a{b}", string(parts[0].prefix), "escapes are unescaped into literal bytes in the parsed prefix")
	// renderParts re-escapes the literal bytes, so the rendered form round-trips
	// back to the original escaped spelling rather than the literal one.
	s.Equal(`/a\{b\}`, tmpl.expansions[0].expanded)
}

func (s *ParserTestSuite) TestEmptyTemplateFails() {
	_, err := parseTemplate("", '/')
	s.Require().Error(err)
	s.ErrorIs(err, ErrEmptyTemplate)
}

func (s *ParserTestSuite) TestUnbalancedGroupFails() {
	_, err := parseTemplate("/a(b", '/')
	s.Require().Error(err)
	s.ErrorIs(err, ErrUnbalancedGroup)
}

func (s *ParserTestSuite) TestUnmatchedClosingParenFails() {
	_, err := parseTemplate("/a)b", '/')
	s.Require().Error(err)
	s.ErrorIs(err, ErrUnbalancedGroup)
}

func (s *ParserTestSuite) TestEmptyParamNameFails() {
	_, err := parseTemplate("/{}", '/')
	s.Require().Error(err)
	s.ErrorIs(err, ErrEmptyName)
}

func (s *ParserTestSuite) TestDelimiterInParamNameFails() {
	_, err := parseTemplate("/{a/b}", '/')
	s.Require().Error(err)
	s.ErrorIs(err, ErrDelimiterInName)
}

func (s *ParserTestSuite) TestInvalidEscapeFails() {
	_, err := parseTemplate(`/a\q`, '/')
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidEscape)
}

func (s *ParserTestSuite) TestParseErrorReportsPosition() {
	_, err := parseTemplate("/a(b", '/')
	var pe *ParseError
	require.ErrorAs(s.T(), err, &pe)
	s.Equal(4, pe.Pos, "unbalanced group is reported at the point scanning ran out of input")
}
