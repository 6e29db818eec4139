package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ByLCY/linetext/dsl"
	"github.com/ByLCY/linetext/editor"
	"github.com/ByLCY/linetext/fonts"
	"github.com/ByLCY/linetext/glyph"
	"github.com/ByLCY/linetext/renderer"
	canvasrenderer "github.com/ByLCY/linetext/renderer/canvas"
	svgrenderer "github.com/ByLCY/linetext/renderer/svg"
	"github.com/ByLCY/linetext/scene"
)

type config struct {
	input    string
	output   string
	pdf      string
	debug    string
	fontDir  string
	data     any
	textOnly bool
	minify   bool
}

func main() {
	input := flag.String("in", "examples/demo.scene", "场景文件路径")
	output := flag.String("out", "", "SVG 输出路径（默认 output/line-text-<时间戳>.svg）")
	pdfPath := flag.String("pdf", "", "PDF 预览输出路径")
	debug := flag.String("debug", "", "文档状态调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到图层文本的 JSON 数据")
	fontDir := flag.String("fonts", "", "额外描边字体目录")
	textOnly := flag.Bool("text-only", false, "仅导出文字，丢弃背景内容")
	minify := flag.Bool("minify", false, "压缩导出的 SVG")
	flag.Parse()

	cfg := config{
		input:    *input,
		output:   *output,
		pdf:      *pdfPath,
		debug:    *debug,
		fontDir:  *fontDir,
		textOnly: *textOnly,
		minify:   *minify,
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}
	if cfg.output == "" {
		cfg.output = filepath.Join("output", svgrenderer.FileName(time.Now()))
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("生成 SVG 失败: %v", err)
	}
	fmt.Printf("已生成 SVG：%s\n", cfg.output)
}

// run 串联场景解析、编辑器回放与导出。
func run(ctx context.Context, cfg config) error {
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开场景文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析场景失败: %w", err)
	}
	sc, err := scene.Compile(doc)
	if err != nil {
		return fmt.Errorf("编译场景失败: %w", err)
	}

	baseDir := filepath.Dir(cfg.input)
	fontDir := cfg.fontDir
	if fontDir == "" {
		fontDir = baseDir
	}
	catalog := fonts.Catalog().Merge(sc.Fonts)
	cache := glyph.NewCache(glyph.MultiSource{
		fonts.Source{},
		glyph.DirSource{Dir: fontDir, Catalog: sc.Fonts},
	})
	ed := editor.New(editor.Options{
		Cache:       cache,
		Catalog:     catalog,
		DefaultFont: fonts.DefaultID,
	})
	if err := sc.Apply(ctx, ed, scene.Options{BaseDir: baseDir, Data: cfg.data}); err != nil {
		return fmt.Errorf("回放场景失败: %w", err)
	}
	if cfg.textOnly {
		ed.SetExportTextOnly(true)
	}
	st := ed.State()

	exporter := svgrenderer.NewRenderer(svgrenderer.Options{Minify: cfg.minify || sc.Export.Minify})
	if err := write(exporter, &st, cfg.output); err != nil {
		return err
	}

	if cfg.pdf != "" {
		title := sc.Name
		if title == "" {
			title = filepath.Base(cfg.input)
		}
		preview := canvasrenderer.NewRenderer(canvasrenderer.Options{
			Meta:  canvasrenderer.Meta{Title: title, Creator: "linetext"},
			Frame: true,
			Paper: sc.Export.Paper,
		})
		if err := write(preview, &st, cfg.pdf); err != nil {
			return err
		}
	}

	if cfg.debug != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := editor.WriteDebugJSON(st, cfg.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	return nil
}

func write(r renderer.Renderer, st *editor.State, path string) error {
	out, err := r.Render(st)
	if err != nil {
		return fmt.Errorf("渲染 %s 失败: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
