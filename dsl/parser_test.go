package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/linetext/dsl"
)

const sampleDSL = `
scene "Door sign" {
  background "assets/plate.svg"

  fonts {
    font hershey "Hershey-Sans" url "https://example.com/hershey"
  }

  export {
    text-only: true
    minify: yes
  }

  // 第一层：标题
  layer "Title" {
    "Room ${room.number|?}"
    font: plotter-block
    size: 32
    align: center
    spacing: -1.5
    line-height: 1.2
    at: [306, 120]
    rotate: 12.5
  }

  layer { "second"; invert: true }
}
`

func TestParseScene(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Door sign" {
		t.Fatalf("expected scene name, got %q", doc.Name)
	}
	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "background,fonts,export,layer,layer" {
		t.Fatalf("unexpected sections: %s", got)
	}
	if got := string(doc.Sections[0].Background.File); got != "assets/plate.svg" {
		t.Fatalf("background file: got=%s", got)
	}

	font := doc.Sections[1].Fonts.Block.Statements[0].Command
	if font == nil || font.Name != "font" || len(font.Args) != 4 {
		t.Fatalf("expected font command with 4 args, got %+v", doc.Sections[1].Fonts.Block.Statements[0])
	}
	if font.Args[0].Value != "hershey" || font.Args[1].Value != "Hershey-Sans" || font.Args[3].Value != "https://example.com/hershey" {
		t.Fatalf("unexpected font args: %+v", font.Args)
	}

	export := doc.Sections[2].Export.Block.Statements
	if on, err := export[0].Assignment.Value.Bool(); err != nil || !on {
		t.Fatalf("text-only: got=%v err=%v", on, err)
	}
	if on, err := export[1].Assignment.Value.Bool(); err != nil || !on {
		t.Fatalf("minify: got=%v err=%v", on, err)
	}

	title := doc.Sections[3].Layer
	if title.Name != "Title" {
		t.Fatalf("layer name: got=%q", title.Name)
	}
	stmts := title.Block.Statements
	if stmts[0].Text == nil || !strings.Contains(string(stmts[0].Text.Value), "${room.number|?}") {
		t.Fatalf("expected text literal first, got %+v", stmts[0])
	}
	values := map[string]*dsl.Value{}
	for _, st := range stmts[1:] {
		if st.Assignment == nil {
			t.Fatalf("expected assignment, got %+v", st)
		}
		values[st.Assignment.Key] = st.Assignment.Value
	}
	if got := values["font"].Text(); got != "plotter-block" {
		t.Fatalf("font: got=%s", got)
	}
	if got, _ := values["spacing"].Float(); got != -1.5 {
		t.Fatalf("spacing: got=%g", got)
	}
	if got, _ := values["line-height"].Float(); got != 1.2 {
		t.Fatalf("line-height: got=%g", got)
	}
	if got, err := values["at"].Floats(); err != nil || len(got) != 2 || got[0] != 306 || got[1] != 120 {
		t.Fatalf("at: got=%v err=%v", got, err)
	}
	if got := values["align"].Text(); got != "center" {
		t.Fatalf("align: got=%s", got)
	}

	second := doc.Sections[4].Layer
	if second.Name != "" || len(second.Block.Statements) != 2 {
		t.Fatalf("unnamed layer: %+v", second)
	}
}

// "#" 开头的都是注释，颜色要写成字符串。
func TestHashCommentsAreNotColours(t *testing.T) {
	doc, err := dsl.ParseString("scene {\n  # fff 是白色\n  #fff background\n  export { paper: \"#fffbe6\" # 米色\n  }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Export == nil {
		t.Fatalf("expected only the export section, got %+v", doc.Sections)
	}
	paper := doc.Sections[0].Export.Block.Statements[0].Assignment
	if paper.Key != "paper" || paper.Value.Text() != "#fffbe6" {
		t.Fatalf("paper: %+v", paper)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`scene { page A4 { } }`); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func TestValueConversions(t *testing.T) {
	doc, err := dsl.ParseString(`scene { export { minify: maybe; width: 210mm } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	stmts := doc.Sections[0].Export.Block.Statements
	if _, err := stmts[0].Assignment.Value.Bool(); err == nil {
		t.Fatalf("expected boolean error")
	}
	width := stmts[1].Assignment.Value
	if width.Text() != "210mm" {
		t.Fatalf("width: got=%s", width.Text())
	}
	if _, err := width.Float(); err == nil {
		t.Fatalf("unit suffix is not a plain number")
	}
}
