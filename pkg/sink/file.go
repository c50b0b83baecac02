package sink

import (
	"context"
	"os"
	"sync"

	"github.com/justinwongcn/checkin/pkg/errorutil"
)

// File 文件日志：每次写入时以追加模式打开文件，目录不存在等问题在写入时暴露而非启动时
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile 创建文件日志
func NewFile(path string) *File {
	return &File{path: path}
}

// Name 返回 Sink 名称
func (f *File) Name() string {
	return "file"
}

// Append 追加一行，行尾补换行符；整行一次写入，互斥保证不与其他行交错
func (f *File) Append(_ context.Context, line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errorutil.LogWrite(f.Name(), err)
	}

	_, werr := file.Write([]byte(line + "\n"))
	cerr := file.Close()
	if werr != nil {
		return errorutil.LogWrite(f.Name(), werr)
	}
	if cerr != nil {
		return errorutil.LogWrite(f.Name(), cerr)
	}
	return nil
}

var _ Named = (*File)(nil)
