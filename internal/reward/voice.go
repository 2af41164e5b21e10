package reward

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNotDataURI   = errors.New("语音必须是data:audio/...;base64,形式的data URI")
	errEmptyPayload = errors.New("语音内容为空")
)

// ValidateVoice 校验语音载荷：必须是音频data URI、
// 申报时长在(0, maxSeconds]内、编码后体积不超过maxBytes。
// 录音端有硬性的时长上限(默认120秒)，这里在服务端再挡一次。
func ValidateVoice(dataURI string, seconds, maxSeconds, maxBytes int) error {
	if !strings.HasPrefix(dataURI, "data:audio/") {
		return errNotDataURI
	}
	idx := strings.Index(dataURI, ";base64,")
	if idx < 0 {
		return errNotDataURI
	}
	body := dataURI[idx+len(";base64,"):]
	if body == "" {
		return errEmptyPayload
	}
	if seconds <= 0 || seconds > maxSeconds {
		return fmt.Errorf("语音时长必须在1到%d秒之间", maxSeconds)
	}
	// base64解码后的体积约为编码长度的3/4
	if decoded := len(body) / 4 * 3; decoded > maxBytes {
		return fmt.Errorf("语音体积超过上限(%d字节)", maxBytes)
	}
	return nil
}
