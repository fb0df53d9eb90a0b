package telephony

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/gosuda/intake/internal/domain"
)

// Webhook routes the rendered markup points the provider back at. These
// mirror the gather/record callback contract of the handler in this package.
const (
	routeGatherBatch       = "/voice/gather-batch"
	routeGatherName        = "/voice/gather-name"
	routeGatherType        = "/voice/gather-type"
	routeConfirm           = "/voice/confirm"
	routeRecordComplete    = "/voice/record-complete"
	routeRecordingCallback = "/voice/recording-callback"
)

// actionFor maps the event a gather collects for to its callback route.
func actionFor(ev domain.EventType) string {
	switch ev {
	case domain.EventBatchCaptured:
		return routeGatherBatch
	case domain.EventNameCaptured:
		return routeGatherName
	case domain.EventTypeCaptured:
		return routeGatherType
	case domain.EventConfirmKeypress:
		return routeConfirm
	default:
		return routeConfirm
	}
}

// RenderTwiML turns a directive into the provider's voice-control markup.
// Gathers get a trailing Redirect to their own action so a silent caller
// re-enters the same state with empty input.
func RenderTwiML(d domain.Directive) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("<Response>")

	switch {
	case d.Gather != nil:
		action := actionFor(d.Gather.For)
		b.WriteString(fmt.Sprintf(`<Gather input="%s" timeout="%d"`, d.Gather.Mode, d.Gather.TimeoutSec))
		if d.Gather.MaxDigits > 0 {
			b.WriteString(fmt.Sprintf(` numDigits="%d"`, d.Gather.MaxDigits))
		}
		b.WriteString(fmt.Sprintf(` action="%s" method="POST">`, action))
		writeSay(&b, d.Prompt)
		b.WriteString("</Gather>")
		b.WriteString("<Redirect>" + action + "</Redirect>")

	case d.Record != nil:
		writeSay(&b, d.Prompt)
		b.WriteString(fmt.Sprintf(`<Record maxLength="%d" finishOnKey="%s" action="%s" recordingStatusCallback="%s"`,
			d.Record.MaxLengthSec, d.Record.FinishOnKey, routeRecordComplete, routeRecordingCallback))
		if d.Record.TrimSilence {
			b.WriteString(` trim="trim-silence"`)
		}
		b.WriteString("/>")

	case d.Hangup:
		writeSay(&b, d.Prompt)
		b.WriteString("<Hangup/>")

	case d.Transfer:
		writeSay(&b, d.Prompt)
		if d.TransferTo != "" {
			b.WriteString("<Dial>" + escape(d.TransferTo) + "</Dial>")
		}

	default:
		// Ack: empty response body, nothing to say.
	}

	b.WriteString("</Response>")
	return b.String()
}

func writeSay(b *strings.Builder, prompt string) {
	if prompt == "" {
		return
	}
	b.WriteString("<Say>" + escape(prompt) + "</Say>")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
