package core

import "context"

// Analyzer 是发况分析服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（analysis）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 使用场景：
//   - 上传照片匹配：视觉模型识别发色/长度/纹理
//   - 文本描述匹配：从用户描述中抽取画像
//
// 实现：
//   - analysis.HTTPAnalyzer 实现此接口（自建视觉服务）
//   - analysis.OpenAIAnalyzer 实现此接口（多模态大模型）
//   - 其他分析后端也可以实现此接口
type Analyzer interface {
	// Name 返回分析后端名称（用于日志/监控）
	Name() string

	// Analyze 分析一次请求，产出发况画像。
	// 画像不可用时返回错误；置信度门限由调用方判断。
	Analyze(ctx context.Context, req *AnalyzeRequest) (*HairProfile, error)

	// Close 关闭连接/释放资源
	Close() error
}

// AnalyzeRequest 是一次发况分析请求。
type AnalyzeRequest struct {
	// Image 图像原始字节；为空表示纯文本分析
	Image []byte

	// MimeType 图像类型（如 "image/jpeg"），Image 非空时必填
	MimeType string

	// Hint 辅助文本：用户描述、文件名等。
	// 视觉分析失败或置信度过低时，作为关键词回退的输入。
	Hint string
}
