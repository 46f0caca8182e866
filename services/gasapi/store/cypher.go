// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

// Ingest statements. Every batch statement follows the same shape:
// UNWIND $rows, upsert, and echo back `i` (the caller-assigned row
// index) with an `applied` flag. Rows whose required graph anchors
// are missing fall out of the MATCH and are never echoed; the caller
// reports those as row errors.
//
// Conditional upserts guard the SET with a FOREACH over a 0-or-1
// element list. The guard comparison is <=, so a re-delivered row
// with an identical timestamp overwrites.

const upsertLocationsCypher = `
UNWIND $rows AS row
MERGE (l:Location {pipelineCode: row.pipelineCode, locationId: row.locationId})
SET l.name = row.name,
    l.direction = row.direction,
    l.zone = row.zone,
    l.marketArea = row.marketArea,
    l.typeCode = row.typeCode,
    l.effectiveDate = row.effectiveDate,
    l.endDate = row.endDate,
    l.latitude = row.latitude,
    l.longitude = row.longitude,
    l.state = row.state,
    l.county = row.county,
    l.country = row.country,
    l.primaryDataSource = row.primaryDataSource,
    l.primaryDataAsOf = row.primaryDataAsOf
RETURN row.i AS i, true AS applied`

const upsertConnectionsCypher = `
UNWIND $rows AS row
MATCH (a:Location {pipelineCode: row.pipelineCode, locationId: row.fromLocationId})
MATCH (b:Location {pipelineCode: row.pipelineCode, locationId: row.toLocationId})
MERGE (a)-[r:CONNECTS_TO]->(b)
SET r.pipelineCode = row.pipelineCode,
    r.version = row.version
RETURN row.i AS i, true AS applied`

const upsertConstraintsCypher = `
UNWIND $rows AS row
MATCH (l:Location {pipelineCode: row.pipelineCode, locationId: row.locationId})
MERGE (l)-[:HAS_CONSTRAINT]->(c:Constraint {
    pipelineCode: row.pipelineCode,
    locationId: row.locationId,
    kind: row.kind,
    effectiveDatetime: row.effectiveDatetime})
SET c.reason = row.reason,
    c.percent = row.percent,
    c.limit = row.limit,
    c.endDatetime = row.endDatetime
RETURN row.i AS i, true AS applied`

const upsertNoticesCypher = `
UNWIND $rows AS row
MERGE (n:Notice {pipelineCode: row.pipelineCode, noticeId: row.noticeId})
WITH row, n,
     (n.lastModifiedDatetime IS NULL OR n.lastModifiedDatetime <= row.lastModifiedDatetime) AS applied
FOREACH (_ IN CASE WHEN applied THEN [1] ELSE [] END |
    SET n.category = row.category,
        n.noticeType = row.noticeType,
        n.status = row.status,
        n.subject = row.subject,
        n.content = row.content,
        n.postingDatetime = row.postingDatetime,
        n.effectiveDatetime = row.effectiveDatetime,
        n.endDatetime = row.endDatetime,
        n.lastModifiedDatetime = row.lastModifiedDatetime,
        n.priorNoticeId = row.priorNoticeId)
RETURN row.i AS i, applied`

const upsertOACCypher = `
UNWIND $rows AS row
MATCH (l:Location {pipelineCode: row.pipelineCode, locationId: row.locationId})
MERGE (l)-[:HAS_AVAILABLE_CAPACITY]->(o:AvailableCapacity {
    pipelineCode: row.pipelineCode,
    cycle: row.cycle,
    flowDate: row.flowDate,
    locationId: row.locationId,
    locPurpDesc: row.locPurpDesc,
    locQTI: row.locQTI,
    direction: row.direction,
    flowIndicator: row.flowIndicator,
    grossOrNet: row.grossOrNet,
    schedStatus: row.schedStatus})
WITH row, o,
     (o.postingDatetime IS NULL OR o.postingDatetime <= row.postingDatetime) AS applied
FOREACH (_ IN CASE WHEN applied THEN [1] ELSE [] END |
    SET o.postingDatetime = row.postingDatetime,
        o.designCapacity = row.designCapacity,
        o.operatingCapacity = row.operatingCapacity,
        o.operationallyAvailableCapacity = row.operationallyAvailableCapacity,
        o.totalScheduledQty = row.totalScheduledQty,
        o.itIndicator = row.itIndicator)
RETURN row.i AS i, applied`

const upsertFlowsCypher = `
UNWIND $rows AS row
MATCH (l:Location {pipelineCode: row.pipelineCode, locationId: row.locationId})
MERGE (l)-[:HAS_FLOW]->(f:Flow {
    pipelineCode: row.pipelineCode,
    locationId: row.locationId,
    flowDate: row.flowDate,
    cycle: row.cycle})
SET f.operationalCapacity = row.operationalCapacity,
    f.scheduledVolume = row.scheduledVolume,
    f.utilization = row.utilization
RETURN row.i AS i, true AS applied`

const upsertPricesCypher = `
UNWIND $rows AS row
MATCH (s:PriceSymbol {symbol: row.symbol})
MERGE (s)-[:HAS_PRICE]->(p:Price {symbol: row.symbol, tradingDay: row.tradingDay})
SET p.price = row.price,
    p.volume = row.volume
RETURN row.i AS i, true AS applied`

const createNominationsCypher = `
UNWIND $rows AS row
MERGE (n:Nomination {nomId: row.nomId})
WITH row, n, (n.pipelineCode IS NULL) AS applied
FOREACH (_ IN CASE WHEN applied THEN [1] ELSE [] END |
    SET n.pipelineCode = row.pipelineCode,
        n.contractId = row.contractId,
        n.receiptLocationId = row.receiptLocationId,
        n.deliveryLocationId = row.deliveryLocationId,
        n.flowDate = row.flowDate,
        n.cycle = row.cycle,
        n.receiptVolume = row.receiptVolume,
        n.fuelLoss = row.fuelLoss,
        n.deliveryVolume = row.deliveryVolume)
RETURN row.i AS i, applied`

// Read statements that take no dynamic WHERE clause.

const getNoticeCypher = `
MATCH (n:Notice {pipelineCode: $pipelineCode, noticeId: $noticeId})
RETURN n.pipelineCode AS pipelineCode, n.noticeId AS noticeId,
       n.category AS category, n.noticeType AS noticeType, n.status AS status,
       n.subject AS subject, n.content AS content,
       n.postingDatetime AS postingDatetime,
       n.effectiveDatetime AS effectiveDatetime, n.endDatetime AS endDatetime,
       n.lastModifiedDatetime AS lastModifiedDatetime,
       n.priorNoticeId AS priorNoticeId`

const getNominationCypher = `
MATCH (n:Nomination {nomId: $nomId})
RETURN n.nomId AS nomId, n.pipelineCode AS pipelineCode,
       n.contractId AS contractId,
       n.receiptLocationId AS receiptLocationId,
       n.deliveryLocationId AS deliveryLocationId,
       n.flowDate AS flowDate, n.cycle AS cycle,
       n.receiptVolume AS receiptVolume, n.fuelLoss AS fuelLoss,
       n.deliveryVolume AS deliveryVolume`
