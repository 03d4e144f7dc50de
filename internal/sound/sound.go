//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/Unnamed1242/mkw-sp/internal/logger"
)

const sampleRate = beep.SampleRate(44100)

// 同一音效两次播放的最小间隔，避免一帧内多个事件叠加
const minCueGap = 150 * time.Millisecond

// Manager plays short cues for lobby events. It is used from the UI goroutine only.
type Manager struct {
	dir      string
	buffers  map[Cue]*beep.Buffer
	lastPlay map[Cue]time.Time
	enabled  bool
	now      func() time.Time
}

// NewManager 创建音效管理器，dir 为音效文件目录
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = DefaultDir
	}
	return &Manager{
		dir:      dir,
		buffers:  make(map[Cue]*beep.Buffer),
		lastPlay: make(map[Cue]time.Time),
		now:      time.Now,
	}
}

// Init opens the speaker and loads every cue found in the directory.
func (m *Manager) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	m.enabled = true

	return m.load()
}

// load 加载目录下所有 mp3/wav 文件，文件名（不含扩展名）即音效名
func (m *Manager) load() error {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}

		buffer, err := decodeFile(filepath.Join(m.dir, name), ext)
		if err != nil {
			logger.LogWarn("skipping sound %s: %v", name, err)
			continue
		}
		m.buffers[Cue(strings.TrimSuffix(name, filepath.Ext(name)))] = buffer
	}
	return nil
}

// decodeFile decodes one file and resamples it into a stereo buffer at sampleRate.
func decodeFile(path, ext string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format
	if ext == ".mp3" {
		streamer, format, err = mp3.Decode(f)
	} else {
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buffer.Append(src)
	return buffer, nil
}

// Loaded reports whether a cue has a sound.
func (m *Manager) Loaded(cue Cue) bool {
	_, ok := m.buffers[cue]
	return ok
}

// Play does nothing before Init and drops a cue repeated within minCueGap.
func (m *Manager) Play(cue Cue) {
	if !m.enabled || !m.admit(cue) {
		return
	}

	buffer, ok := m.buffers[cue]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// admit 判断该音效是否超过了最小间隔
func (m *Manager) admit(cue Cue) bool {
	now := m.now()
	if last, ok := m.lastPlay[cue]; ok && now.Sub(last) < minCueGap {
		return false
	}
	m.lastPlay[cue] = now
	return true
}

func (m *Manager) Close() {
	m.enabled = false
}
