package nsbench

import (
	"fmt"
	"time"

	"github.com/miekg/dns"
)

func (b *Benchmark) logRequest(workerID int, req dns.Msg, resp *dns.Msg, err error, dur time.Duration) {
	rcode := "<nil>"
	respid := "<nil>"
	if resp != nil {
		rcode = dns.RcodeToString[resp.Rcode]
		respid = fmt.Sprint(resp.Id)
	}
	b.requestLog.Printf("worker:[%d] reqid:[%d] qname:[%s] respid:[%s] rcode:[%s] err:[%v] duration:[%v]",
		workerID, req.Id, req.Question[0].Name, respid, rcode, err, dur)
}
