package prompt

import (
	"os"
	"path/filepath"
	"strings"

	"codecompare-backend/pkg/logger"
)

// 没有对应语言模板时使用的通用前导语
const genericPreamble = `You are an expert software engineer. Generate clean, working code for the requested language. Return only the code, without surrounding explanation.`

// Resolver 从模板目录加载各语言的系统前导语
// 启动时一次性读入，之后的查询不再访问文件系统
type Resolver struct {
	preambles map[string]string
}

func NewResolver(dir string) *Resolver {
	r := &Resolver{preambles: make(map[string]string)}
	if dir == "" {
		return r
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warnf("prompt template dir %q not readable: %v", dir, err)
		return r
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warnf("failed to read prompt template %s: %v", entry.Name(), err)
			continue
		}
		language := strings.TrimSuffix(entry.Name(), ".txt")
		r.preambles[language] = strings.TrimSpace(string(data))
	}

	logger.Infof("loaded %d prompt templates from %s", len(r.preambles), dir)
	return r
}

// Preamble 返回语言专属前导语，缺失时回退到通用前导语
func (r *Resolver) Preamble(language string) string {
	if p, ok := r.preambles[language]; ok {
		return p
	}
	logger.Debugf("no prompt template for language %q, using generic preamble", language)
	return genericPreamble
}
