package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/screenhall/roomctl/internal/domain"
	"github.com/screenhall/roomctl/internal/events"
	"github.com/screenhall/roomctl/internal/media"
)

const produceWaitTimeout = 5 * time.Second

func (o *Orchestrator) handleGetRouterRtpCapabilities(cid domain.ConnectionID) {
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	o.mediaEng.CreateRouter(rid)
	caps, ok := o.mediaEng.GetRouterRTPCapabilities(rid)
	if !ok {
		o.sendError(cid, "router unavailable")
		return
	}
	o.pub.Send(cid, events.RouterRtpCapabilitiesOut{Type: events.TypeRouterRtpCapabilities, Codecs: caps.Codecs})
}

func (o *Orchestrator) handleCreateTransport(cid domain.ConnectionID, data []byte) {
	var in events.CreateTransportIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}

	dir := media.DirectionRecv
	if in.Direction == string(media.DirectionSend) {
		dir = media.DirectionSend
	}

	ctx, cancel := ctxFor()
	defer cancel()

	t, err := o.mediaEng.CreateWebRTCTransport(ctx, rid, cid, dir, func(c webrtc.ICECandidateInit) {
		out := events.ICECandidateIn{Type: events.TypeICECandidate, Candidate: c.Candidate}
		if c.SDPMid != nil {
			out.SDPMid = *c.SDPMid
		}
		if c.SDPMLineIndex != nil {
			out.SDPMLineIndex = *c.SDPMLineIndex
		}
		o.pub.Send(cid, out)
	})
	if err != nil {
		o.sendError(cid, "could not create transport")
		return
	}
	o.pub.Send(cid, events.TransportCreatedOut{Type: events.TypeTransportCreated, TransportID: t.ID})
}

func (o *Orchestrator) handleConnectTransport(cid domain.ConnectionID, data []byte) {
	var in events.ConnectTransportIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}

	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: in.SDP}
	answer, err := o.mediaEng.ConnectTransport(rid, in.TransportID, offer)
	if err != nil {
		o.sendError(cid, "could not connect transport")
		return
	}
	o.pub.Send(cid, events.TransportConnectedOut{Type: events.TypeTransportConnected, TransportID: in.TransportID, SDP: answer.SDP})
}

func (o *Orchestrator) handleProduce(cid domain.ConnectionID, data []byte) {
	var in events.ProduceIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}

	p, err := o.mediaEng.Produce(rid, cid, produceWaitTimeout)
	if err != nil {
		o.sendError(cid, "no media track received")
		return
	}
	o.pub.Send(cid, events.ProducedOut{Type: events.TypeProduced, ProducerID: p.ID})
	o.pub.Broadcast(rid, cid, events.NewProducerOut{Type: events.TypeNewProducer, ProducerID: p.ID, ConnectionID: cid})
}

func (o *Orchestrator) handleConsume(cid domain.ConnectionID, data []byte) {
	var in events.ConsumeIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}

	c, err := o.mediaEng.Consume(rid, in.ProducerID, cid, in.TransportID)
	if err != nil {
		o.sendError(cid, "could not consume producer")
		return
	}
	o.pub.Send(cid, events.ConsumedOut{Type: events.TypeConsumed, ConsumerID: c.ID, ProducerID: c.ProducerID})
}

func (o *Orchestrator) handleResumeConsumer(cid domain.ConnectionID, data []byte) {
	var in events.ResumeConsumerIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	if err := o.mediaEng.ResumeConsumer(rid, in.ConsumerID); err != nil {
		o.sendError(cid, "could not resume consumer")
		return
	}
	o.pub.Send(cid, events.ConsumerResumedOut{Type: events.TypeConsumerResumed, ConsumerID: in.ConsumerID})
}

func (o *Orchestrator) handleGetProducers(cid domain.ConnectionID) {
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	producers := o.mediaEng.GetProducers(rid, cid)
	views := make([]events.ProducerView, 0, len(producers))
	for _, p := range producers {
		views = append(views, events.ProducerView{ProducerID: p.ID, ConnectionID: p.ConnectionID})
	}
	o.pub.Send(cid, events.ProducersOut{Type: events.TypeProducers, Producers: views})
}

func (o *Orchestrator) handleCloseProducer(cid domain.ConnectionID, data []byte) {
	var in events.CloseProducerIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	if _, closed := o.mediaEng.CloseProducer(rid, in.ProducerID); !closed {
		return
	}
	o.pub.Broadcast(rid, "", events.ProducerClosedOut{Type: events.TypeProducerClosed, ProducerID: in.ProducerID})
}
