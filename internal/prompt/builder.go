package prompt

import (
	"fmt"
	"strings"

	"codecompare-backend/internal/model"
)

// Payload 一次生成调用的完整指令
type Payload struct {
	// System 语言相关的系统前导语
	System string
	// Transcript 历史窗口的序列化转写，可能为空
	Transcript string
	// User 带修改提示的新请求
	User string
}

// Builder 把历史窗口和新提示词组装成指令载荷
// 相同输入必定产生相同输出，除模板查询外不做任何 I/O
type Builder struct {
	resolver *Resolver
}

func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

func (b *Builder) Build(window []model.ConversationTurn, prompt, language string) Payload {
	return Payload{
		System:     b.resolver.Preamble(language),
		Transcript: renderTranscript(window),
		User:       renderUser(prompt),
	}
}

// Flatten 拼成单段文本，供只接受一个字符串的后端使用
func (p Payload) Flatten() string {
	var sb strings.Builder
	sb.WriteString(p.System)
	if p.Transcript != "" {
		sb.WriteString("\n\n")
		sb.WriteString(p.Transcript)
	}
	sb.WriteString("\n\n")
	sb.WriteString(p.User)
	return sb.String()
}

// UserWithContext 转写加新提示词，供 system 字段单独下发的后端使用
func (p Payload) UserWithContext() string {
	if p.Transcript == "" {
		return p.User
	}
	return p.Transcript + "\n\n" + p.User
}

func renderTranscript(window []model.ConversationTurn) string {
	if len(window) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Previous conversation:\n")
	for _, turn := range window {
		fmt.Fprintf(&sb, "User: %s\n", turn.Prompt)
		fmt.Fprintf(&sb, "Assistant: I generated the following %s code (%s):\n%s\n\n", turn.Language, turn.Description, turn.Code)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderUser(prompt string) string {
	return fmt.Sprintf("New request: %s\n\nIf this request relates to the previous conversation, modify the prior code rather than regenerating it from scratch.", prompt)
}
