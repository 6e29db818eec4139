package renderer

import "github.com/ByLCY/linetext/editor"

// Renderer 将文档状态输出为最终文件，例如 SVG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(state *editor.State) ([]byte, error)
}
